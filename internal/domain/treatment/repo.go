package treatment

import "context"

type TreatmentRepository interface {
	GetByID(ctx context.Context, id int) (*Treatment, error)
	// List returns treatments ordered by name; diagnosisID 0 lists all.
	List(ctx context.Context, diagnosisID, limit, offset int) ([]*Treatment, int, error)
	Medications(ctx context.Context, treatmentID int) ([]*TreatmentMedication, error)
}

type PatientTreatmentRepository interface {
	Create(ctx context.Context, pt *PatientTreatment) error
	GetByID(ctx context.Context, id int) (*PatientTreatment, error)
	Update(ctx context.Context, pt *PatientTreatment) error
	Delete(ctx context.Context, id int) error
	// List returns the treatments of one patient diagnosis, newest first.
	List(ctx context.Context, patientDiagnosisID, limit, offset int) ([]*PatientTreatment, int, error)
}

type PatientMedicationRepository interface {
	Create(ctx context.Context, pm *PatientMedication) error
	GetByID(ctx context.Context, id int) (*PatientMedication, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, patientTreatmentID int) ([]*PatientMedication, error)
}
