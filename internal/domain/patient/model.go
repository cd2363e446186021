package patient

import "time"

// Patient is one patient record. Optional text fields are empty strings when
// absent and stored as NULL.
type Patient struct {
	ID           int        `json:"id"`
	FirstName    string     `json:"first_name" validate:"required,max=50"`
	LastName     string     `json:"last_name" validate:"required,max=50"`
	Address      string     `json:"address,omitempty" validate:"max=50"`
	City         string     `json:"city,omitempty" validate:"max=50"`
	ProvinceCode string     `json:"province_code,omitempty" validate:"omitempty,len=2"`
	PostalCode   string     `json:"postal_code,omitempty" validate:"max=10"`
	OHIP         string     `json:"ohip,omitempty" validate:"max=50"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Deceased     bool       `json:"deceased"`
	DateOfDeath  *time.Time `json:"date_of_death,omitempty"`
	HomePhone    string     `json:"home_phone,omitempty" validate:"max=50"`
	Gender       string     `json:"gender" validate:"required"`
}

// DisplayName renders "Last, First".
func (p *Patient) DisplayName() string {
	return p.LastName + ", " + p.FirstName
}

// Field names used in validation errors.
const (
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldProvinceCode = "province_code"
	FieldPostalCode   = "postal_code"
	FieldOHIP         = "ohip"
	FieldHomePhone    = "home_phone"
	FieldDateOfBirth  = "date_of_birth"
	FieldDateOfDeath  = "date_of_death"
	FieldGender       = "gender"
)
