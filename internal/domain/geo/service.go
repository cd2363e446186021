package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rgpatients/patients/internal/platform/db"
	"github.com/rgpatients/patients/internal/platform/validation"
)

type Service struct {
	countries CountryRepository
	provinces ProvinceRepository
}

func NewService(countries CountryRepository, provinces ProvinceRepository) *Service {
	return &Service{countries: countries, provinces: provinces}
}

// -- Country --

func (s *Service) CreateCountry(ctx context.Context, c *Country) error {
	c.Normalize()
	if err := validation.Check(c); err != nil {
		return err
	}
	if err := s.countries.Create(ctx, c); err != nil {
		return fmt.Errorf("create country: %w", err)
	}
	return nil
}

func (s *Service) GetCountry(ctx context.Context, code string) (*Country, error) {
	return s.countries.GetByCode(ctx, strings.ToUpper(code))
}

func (s *Service) UpdateCountry(ctx context.Context, c *Country) error {
	c.Normalize()
	if err := validation.Check(c); err != nil {
		return err
	}
	return s.countries.Update(ctx, c)
}

func (s *Service) DeleteCountry(ctx context.Context, code string) error {
	return s.countries.Delete(ctx, strings.ToUpper(code))
}

func (s *Service) ListCountries(ctx context.Context, limit, offset int) ([]*Country, int, error) {
	return s.countries.List(ctx, limit, offset)
}

// -- Province --

func (s *Service) GetProvince(ctx context.Context, code string) (*Province, error) {
	return s.provinces.GetByCode(ctx, strings.ToUpper(code))
}

func (s *Service) ListProvinces(ctx context.Context, countryCode string, limit, offset int) ([]*Province, int, error) {
	return s.provinces.List(ctx, strings.ToUpper(strings.TrimSpace(countryCode)), limit, offset)
}

// LookupProvince resolves code against the reference data. A province that is
// not on file yields (nil, nil); only store failures return an error.
func (s *Service) LookupProvince(ctx context.Context, code string) (*ProvinceInfo, error) {
	p, err := s.provinces.GetByCode(ctx, code)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup province %q: %w", code, err)
	}
	return p.Info(), nil
}
