package geo

import "strings"

// Country holds the postal and phone conventions of one country.
type Country struct {
	Code            string  `json:"code" validate:"required,len=2,alpha"`
	Name            string  `json:"name" validate:"required,max=50"`
	PostalPattern   *string `json:"postal_pattern,omitempty" validate:"omitempty,max=120"`
	PhonePattern    *string `json:"phone_pattern,omitempty" validate:"omitempty,max=50"`
	FederalSalesTax float64 `json:"federal_sales_tax" validate:"gte=0"`
}

// Normalize trims the fields and uppercases the code.
func (c *Country) Normalize() {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.Name = strings.TrimSpace(c.Name)
	c.PostalPattern = trimmedOrNil(c.PostalPattern)
	c.PhonePattern = trimmedOrNil(c.PhonePattern)
}

type Province struct {
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	CountryCode        string  `json:"country_code"`
	SalesTaxCode       string  `json:"sales_tax_code"`
	SalesTax           float64 `json:"sales_tax"`
	IncludesFederalTax bool    `json:"includes_federal_tax"`
	FirstPostalLetter  *string `json:"first_postal_letter,omitempty"`
}

// ProvinceInfo is the read-only view of a province consumed by the patient
// validator. FirstPostalLetter lists the allowed leading letters of the
// province's postal codes ("K|L|M|N|P"); empty means unconstrained.
type ProvinceInfo struct {
	Code              string
	CountryCode       string
	FirstPostalLetter string
}

func (p *Province) Info() *ProvinceInfo {
	info := &ProvinceInfo{Code: p.Code, CountryCode: p.CountryCode}
	if p.FirstPostalLetter != nil {
		info.FirstPostalLetter = *p.FirstPostalLetter
	}
	return info
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
