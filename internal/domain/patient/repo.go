package patient

import "context"

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int) error
	// List returns patients ordered by last name, then first name. A non-empty
	// name filters on either name, case-insensitively.
	List(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error)
}
