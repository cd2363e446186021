package medication

import "context"

type MedicationTypeRepository interface {
	Create(ctx context.Context, t *MedicationType) error
	GetByID(ctx context.Context, id int) (*MedicationType, error)
	Update(ctx context.Context, t *MedicationType) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, limit, offset int) ([]*MedicationType, int, error)
}

type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	GetByDIN(ctx context.Context, din string) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	Delete(ctx context.Context, din string) error
	// ListByType returns the medications of one type ordered by name, then concentration.
	ListByType(ctx context.Context, typeID, limit, offset int) ([]*Medication, int, error)
	// ExistsStrength reports whether another medication (DIN other than
	// excludeDIN) has the same name, concentration and concentration code.
	ExistsStrength(ctx context.Context, name string, concentration float64, concentrationCode, excludeDIN string) (bool, error)
}
