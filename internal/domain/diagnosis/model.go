package diagnosis

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Diagnosis struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	CategoryID   int    `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
}

// PatientDiagnosis links a patient to a diagnosis. PatientName ("Last, First")
// and DiagnosisName are populated on reads.
type PatientDiagnosis struct {
	ID          int     `json:"id"`
	PatientID   int     `json:"patient_id" validate:"gte=1"`
	DiagnosisID int     `json:"diagnosis_id" validate:"gte=1"`
	Comments    *string `json:"comments,omitempty"`

	PatientName   string `json:"patient_name,omitempty" validate:"-"`
	DiagnosisName string `json:"diagnosis_name,omitempty" validate:"-"`
}
