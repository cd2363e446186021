package diagnosis

import "context"

type CategoryRepository interface {
	List(ctx context.Context) ([]*Category, error)
}

type DiagnosisRepository interface {
	GetByID(ctx context.Context, id int) (*Diagnosis, error)
	// List returns diagnoses ordered by name; categoryID 0 lists all.
	List(ctx context.Context, categoryID, limit, offset int) ([]*Diagnosis, int, error)
}

type PatientDiagnosisRepository interface {
	Create(ctx context.Context, pd *PatientDiagnosis) error
	GetByID(ctx context.Context, id int) (*PatientDiagnosis, error)
	Update(ctx context.Context, pd *PatientDiagnosis) error
	Delete(ctx context.Context, id int) error
	// List returns patient diagnoses ordered by patient last name; patientID 0 lists all.
	List(ctx context.Context, patientID, limit, offset int) ([]*PatientDiagnosis, int, error)
}
