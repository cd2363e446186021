package treatment

import "time"

// Exact/min/max qualifiers for a prescribed dose.
const (
	DoseExact = "exact"
	DoseMin   = "min"
	DoseMax   = "max"
)

type Treatment struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	DiagnosisID int     `json:"diagnosis_id"`
}

// TreatmentMedication is a medication commonly prescribed under a treatment.
type TreatmentMedication struct {
	DIN  string `json:"din"`
	Name string `json:"name"`
}

// PatientTreatment is a treatment prescribed for one patient diagnosis.
type PatientTreatment struct {
	ID                 int        `json:"id"`
	TreatmentID        int        `json:"treatment_id" validate:"gte=1"`
	DatePrescribed     *time.Time `json:"date_prescribed,omitempty"`
	Comments           *string    `json:"comments,omitempty"`
	PatientDiagnosisID int        `json:"patient_diagnosis_id" validate:"gte=1"`

	TreatmentName string `json:"treatment_name,omitempty" validate:"-"`
}

type PatientMedication struct {
	ID                 int      `json:"id"`
	PatientTreatmentID int      `json:"patient_treatment_id" validate:"gte=1"`
	DIN                string   `json:"din" validate:"required,max=8"`
	Dose               *float64 `json:"dose,omitempty" validate:"omitempty,gte=0"`
	Frequency          *int     `json:"frequency,omitempty" validate:"omitempty,gte=0"`
	FrequencyPeriod    *string  `json:"frequency_period,omitempty" validate:"omitempty,max=50"`
	ExactMinMax        string   `json:"exact_min_max" validate:"oneof=exact min max"`
	Comments           *string  `json:"comments,omitempty"`

	MedicationName string `json:"medication_name,omitempty" validate:"-"`
}
