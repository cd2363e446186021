package units

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgpatients/patients/internal/platform/validation"
)

type Service struct {
	repo UnitRepository
}

func NewService(repo UnitRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, kind Kind, u *Unit) error {
	u.Code = strings.TrimSpace(u.Code)
	if err := validation.Check(u); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, kind, u); err != nil {
		return fmt.Errorf("create %s unit: %w", kind, err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, kind Kind, code string) (*Unit, error) {
	return s.repo.Get(ctx, kind, code)
}

func (s *Service) Delete(ctx context.Context, kind Kind, code string) error {
	return s.repo.Delete(ctx, kind, code)
}

func (s *Service) List(ctx context.Context, kind Kind, limit, offset int) ([]*Unit, int, error) {
	return s.repo.List(ctx, kind, limit, offset)
}
