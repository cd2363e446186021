package units

import "context"

type UnitRepository interface {
	Create(ctx context.Context, kind Kind, u *Unit) error
	Get(ctx context.Context, kind Kind, code string) (*Unit, error)
	Delete(ctx context.Context, kind Kind, code string) error
	List(ctx context.Context, kind Kind, limit, offset int) ([]*Unit, int, error)
}
