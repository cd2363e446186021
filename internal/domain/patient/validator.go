package patient

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/rgpatients/patients/internal/domain/geo"
	"github.com/rgpatients/patients/internal/platform/validation"
)

// ProvinceLookup resolves a province code. A code that is not on file yields
// (nil, nil).
type ProvinceLookup interface {
	LookupProvince(ctx context.Context, code string) (*geo.ProvinceInfo, error)
}

const (
	countryCanada = "CA"
	countryUS     = "US"
)

const (
	msgProvinceNotOnFile       = "Province Code is not on file"
	msgProvinceNeededForPostal = "Province Code is required to validate Postal Code"
	msgCanadaNeedsProvince     = "Province Code is required to validate a Postal Code"
	msgProvinceMissing         = "Province Code is missing"
	msgFirstLetterSingle       = "First letter of Postal Code not valid for given Province"
	msgFirstLetterMulti        = "First Letter of Postal Code is invalid as per given Province"
	msgPostalPerProvince       = "Enter valid Postal Code as per this province"
	msgCanadianPattern         = "Postal Code not match cdn pattern: A3A 3A3"
	msgZipLength               = "American zip code should be either 5 or 9 digits."
	msgOHIPPattern             = "Ohip if provided, must match pattern: 1234-123-123-XX"
	msgHomePhone               = "Home Phone, if provided must be 10 digits"
	msgBirthInFuture           = "Date of birth cannot be in the future"
	msgDeathRequired           = "DateOfDeath is required, if deceased is true."
	msgDeathInFuture           = "Date of Death cannot be in the future"
	msgDeathBeforeBirth        = "Date of Death cannot be before than Date of Birth (if it is provided)"
	msgDeathMustBeEmpty        = "DateOfDeath is should remain empty, if deceased is unchecked."
	msgGender                  = "Gender must be M, F or X"
)

var (
	canadianPostalPattern = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z][ -]?\d[A-Za-z]\d$`)
	ohipPattern           = regexp.MustCompile(`^\d{4}-\d{3}-\d{3}-[A-Za-z]{2}$`)
	phoneSeparators       = strings.NewReplacer("-", "", " ", "", "(", "", ")", "", ".", "")
	zipSeparators         = strings.NewReplacer("-", "", " ", "")
)

// Validator checks a patient record field by field. It never stops at the
// first failure: every field group is evaluated and contributes outcomes.
type Validator struct {
	Provinces ProvinceLookup
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewValidator(provinces ProvinceLookup) *Validator {
	return &Validator{Provinces: provinces, Now: time.Now}
}

func (v *Validator) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

// Validate normalizes p and checks it, returning the normalized copy and the
// outcomes in evaluation order. The error is non-nil only when the province
// lookup itself fails.
func (v *Validator) Validate(ctx context.Context, p Patient) (Patient, []validation.Outcome, error) {
	p = Normalize(p)
	var out []validation.Outcome

	var province *geo.ProvinceInfo
	if p.ProvinceCode == "" {
		out = append(out, validation.OK())
	} else {
		info, err := v.Provinces.LookupProvince(ctx, p.ProvinceCode)
		if err != nil {
			return p, nil, fmt.Errorf("validate patient: %w", err)
		}
		if info == nil {
			out = append(out,
				validation.Fail(FieldProvinceCode, msgProvinceNotOnFile),
				validation.Fail(FieldPostalCode, msgProvinceNeededForPostal))
		}
		province = info
	}

	if p.PostalCode == "" {
		out = append(out, validation.OK())
	} else if province != nil {
		switch province.CountryCode {
		case countryCanada:
			var res []validation.Outcome
			p.PostalCode, res = checkCanadianPostal(p.ProvinceCode, p.PostalCode, province.FirstPostalLetter)
			out = append(out, res...)
		case countryUS:
			if zip, ok := normalizeZip(p.PostalCode); ok {
				p.PostalCode = zip
			} else {
				out = append(out, validation.Fail(FieldPostalCode, msgZipLength))
			}
		}
	}

	if p.OHIP == "" || ohipPattern.MatchString(p.OHIP) {
		p.OHIP = strings.ToUpper(p.OHIP)
		out = append(out, validation.OK())
	} else {
		out = append(out, validation.Fail(FieldOHIP, msgOHIPPattern))
	}

	if p.HomePhone == "" {
		out = append(out, validation.OK())
	} else if phone, ok := formatPhone(p.HomePhone); ok {
		p.HomePhone = phone
		out = append(out, validation.OK())
	} else {
		out = append(out, validation.Fail(FieldHomePhone, msgHomePhone))
	}

	now := v.now()
	if p.DateOfBirth != nil && p.DateOfBirth.After(now) {
		out = append(out, validation.Fail(FieldDateOfBirth, msgBirthInFuture))
	} else {
		out = append(out, validation.OK())
	}

	out = append(out, checkDeath(p, now)...)

	if !strings.ContainsAny(p.Gender, "MFX") {
		out = append(out, validation.Fail(FieldGender, msgGender))
	}

	out = append(out, validation.OK())
	return p, out, nil
}

// checkCanadianPostal validates a non-empty postal code for a Canadian
// province whose allowed leading letters are firstLetters, returning the
// (possibly reformatted) postal code.
func checkCanadianPostal(provinceCode, postal, firstLetters string) (string, []validation.Outcome) {
	if provinceCode == "" {
		return postal, []validation.Outcome{
			validation.Fail(FieldPostalCode, msgCanadaNeedsProvince),
			validation.Fail(FieldProvinceCode, msgProvinceMissing),
		}
	}
	if !canadianPostalPattern.MatchString(postal) {
		return postal, []validation.Outcome{validation.Fail(FieldPostalCode, msgCanadianPattern)}
	}

	allowed := postalLetters(firstLetters)
	lead := unicode.ToUpper(rune(postal[0]))
	switch {
	case len(allowed) == 0, strings.ContainsRune(allowed, lead):
		return formatCanadianPostal(postal), []validation.Outcome{validation.OK()}
	case len(allowed) == 1:
		return postal, []validation.Outcome{
			validation.Fail(FieldPostalCode, msgFirstLetterSingle),
			validation.Fail(FieldProvinceCode, msgPostalPerProvince),
		}
	default:
		return postal, []validation.Outcome{
			validation.Fail(FieldPostalCode, msgFirstLetterMulti),
			validation.Fail(FieldProvinceCode, msgPostalPerProvince),
		}
	}
}

// postalLetters extracts the uppercase letters of a constraint such as
// "K|L|M|N|P" or "GHJ".
func postalLetters(constraint string) string {
	var b strings.Builder
	for _, r := range constraint {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// formatCanadianPostal renders a pattern-valid postal code as "A1A 1A1".
func formatCanadianPostal(postal string) string {
	compact := strings.ToUpper(zipSeparators.Replace(postal))
	return compact[:3] + " " + compact[3:]
}

// normalizeZip accepts 5 or 9 digits, ignoring spaces and dashes, and renders
// them as "12345" or "12345-6789".
func normalizeZip(zip string) (string, bool) {
	digits := zipSeparators.Replace(zip)
	if !allDigits(digits) {
		return zip, false
	}
	switch len(digits) {
	case 5:
		return digits, true
	case 9:
		return digits[:5] + "-" + digits[5:], true
	default:
		return zip, false
	}
}

// formatPhone accepts exactly 10 digits, ignoring common separators, and
// renders them as "###-###-####".
func formatPhone(phone string) (string, bool) {
	digits := phoneSeparators.Replace(phone)
	if len(digits) != 10 || !allDigits(digits) {
		return phone, false
	}
	return digits[:3] + "-" + digits[3:6] + "-" + digits[6:], true
}

func checkDeath(p Patient, now time.Time) []validation.Outcome {
	if p.Deceased {
		if p.DateOfDeath == nil {
			return []validation.Outcome{validation.Fail(FieldDateOfDeath, msgDeathRequired)}
		}
		out := make([]validation.Outcome, 0, 2)
		if p.DateOfDeath.After(now) {
			out = append(out, validation.Fail(FieldDateOfDeath, msgDeathInFuture))
		} else {
			out = append(out, validation.OK())
		}
		if p.DateOfBirth == nil || p.DateOfDeath.After(*p.DateOfBirth) {
			out = append(out, validation.OK())
		} else {
			out = append(out, validation.Fail(FieldDateOfDeath, msgDeathBeforeBirth))
		}
		return out
	}
	if p.DateOfDeath == nil {
		return []validation.Outcome{validation.OK()}
	}
	// Both messages are reported for an unchecked deceased flag with a date
	// of death.
	return []validation.Outcome{
		validation.Fail(FieldDateOfDeath, msgDeathRequired),
		validation.Fail(FieldDateOfDeath, msgDeathMustBeEmpty),
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Normalize returns a copy of p with every text field trimmed; names, address,
// city and gender capitalized; province code and OHIP uppercased.
func Normalize(p Patient) Patient {
	p.FirstName = capitalize(strings.TrimSpace(p.FirstName))
	p.LastName = capitalize(strings.TrimSpace(p.LastName))
	p.Address = capitalize(strings.TrimSpace(p.Address))
	p.City = capitalize(strings.TrimSpace(p.City))
	p.Gender = capitalize(strings.TrimSpace(p.Gender))
	p.ProvinceCode = strings.ToUpper(strings.TrimSpace(p.ProvinceCode))
	p.PostalCode = strings.TrimSpace(p.PostalCode)
	p.OHIP = strings.ToUpper(strings.TrimSpace(p.OHIP))
	p.HomePhone = strings.TrimSpace(p.HomePhone)
	return p
}

// capitalize uppercases the first letter of every word and leaves the rest
// untouched, so "mcDonald" becomes "McDonald".
func capitalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	wordStart := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			wordStart = true
		} else if wordStart {
			r = unicode.ToUpper(r)
			wordStart = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
