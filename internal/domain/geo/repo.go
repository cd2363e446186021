package geo

import "context"

type CountryRepository interface {
	Create(ctx context.Context, c *Country) error
	GetByCode(ctx context.Context, code string) (*Country, error)
	Update(ctx context.Context, c *Country) error
	Delete(ctx context.Context, code string) error
	List(ctx context.Context, limit, offset int) ([]*Country, int, error)
}

type ProvinceRepository interface {
	GetByCode(ctx context.Context, code string) (*Province, error)
	// List returns provinces ordered by name; an empty countryCode lists all.
	List(ctx context.Context, countryCode string, limit, offset int) ([]*Province, int, error)
}
