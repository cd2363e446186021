package medication

import "strings"

type MedicationType struct {
	ID   int    `json:"id"`
	Name string `json:"name" validate:"required,max=50"`
}

// Medication is a drug product keyed by its 8-digit drug identification number.
type Medication struct {
	DIN               string  `json:"din" validate:"required,max=8,numeric"`
	Name              string  `json:"name" validate:"required,max=20"`
	Image             *string `json:"image,omitempty" validate:"omitempty,max=50"`
	MedicationTypeID  int     `json:"medication_type_id" validate:"gte=1"`
	DispensingCode    string  `json:"dispensing_code" validate:"required,max=50"`
	Concentration     float64 `json:"concentration" validate:"gte=0"`
	ConcentrationCode string  `json:"concentration_code" validate:"required,max=50"`

	// Populated on reads.
	MedicationTypeName string `json:"medication_type_name,omitempty" validate:"-"`
}

func (m *Medication) Normalize() {
	m.DIN = strings.TrimSpace(m.DIN)
	m.Name = strings.TrimSpace(m.Name)
	m.DispensingCode = strings.TrimSpace(m.DispensingCode)
	m.ConcentrationCode = strings.TrimSpace(m.ConcentrationCode)
	if m.Image != nil {
		img := strings.TrimSpace(*m.Image)
		if img == "" {
			m.Image = nil
		} else {
			m.Image = &img
		}
	}
}
