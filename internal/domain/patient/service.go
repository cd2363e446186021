package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgpatients/patients/internal/platform/validation"
)

type Service struct {
	repo      PatientRepository
	validator *Validator
}

func NewService(repo PatientRepository, provinces ProvinceLookup) *Service {
	return &Service{repo: repo, validator: NewValidator(provinces)}
}

// SetValidator replaces the field validator; tests use it to pin the clock.
func (s *Service) SetValidator(v *Validator) { s.validator = v }

// Check runs the declarative rules and the field validator over p and returns
// the normalized record with every field error found.
func (s *Service) Check(ctx context.Context, p Patient) (Patient, []validation.FieldError, error) {
	normalized, outcomes, err := s.validator.Validate(ctx, p)
	if err != nil {
		return p, nil, err
	}
	fields := validation.Struct(normalized)
	fields = append(fields, validation.Errors(outcomes)...)
	return normalized, fields, nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	normalized, fields, err := s.Check(ctx, *p)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return validation.NewError(fields...)
	}
	*p = normalized
	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id int) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	normalized, fields, err := s.Check(ctx, *p)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return validation.NewError(fields...)
	}
	*p = normalized
	return s.repo.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, strings.TrimSpace(name), limit, offset)
}
