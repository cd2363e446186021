package medication

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rgpatients/patients/internal/platform/db"
	"github.com/rgpatients/patients/internal/platform/validation"
)

// ErrDuplicate rejects a medication whose name, concentration and
// concentration code match an existing one.
var ErrDuplicate = errors.New("Duplicate entry found")

type Service struct {
	types MedicationTypeRepository
	meds  MedicationRepository
	tx    db.Transactor
}

func NewService(types MedicationTypeRepository, meds MedicationRepository, tx db.Transactor) *Service {
	if tx == nil {
		tx = db.NoTx{}
	}
	return &Service{types: types, meds: meds, tx: tx}
}

// -- Medication Type --

func (s *Service) CreateType(ctx context.Context, t *MedicationType) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := validation.Check(t); err != nil {
		return err
	}
	if err := s.types.Create(ctx, t); err != nil {
		return fmt.Errorf("create medication type: %w", err)
	}
	return nil
}

func (s *Service) GetType(ctx context.Context, id int) (*MedicationType, error) {
	return s.types.GetByID(ctx, id)
}

func (s *Service) UpdateType(ctx context.Context, t *MedicationType) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := validation.Check(t); err != nil {
		return err
	}
	return s.types.Update(ctx, t)
}

func (s *Service) DeleteType(ctx context.Context, id int) error {
	return s.types.Delete(ctx, id)
}

func (s *Service) ListTypes(ctx context.Context, limit, offset int) ([]*MedicationType, int, error) {
	return s.types.List(ctx, limit, offset)
}

// -- Medication --

// ListMedications returns the medications of the given type along with the
// type itself.
func (s *Service) ListMedications(ctx context.Context, typeID, limit, offset int) ([]*Medication, int, *MedicationType, error) {
	t, err := s.types.GetByID(ctx, typeID)
	if err != nil {
		return nil, 0, nil, err
	}
	items, total, err := s.meds.ListByType(ctx, typeID, limit, offset)
	if err != nil {
		return nil, 0, nil, err
	}
	return items, total, t, nil
}

func (s *Service) GetMedication(ctx context.Context, din string) (*Medication, error) {
	return s.meds.GetByDIN(ctx, strings.TrimSpace(din))
}

func (s *Service) CreateMedication(ctx context.Context, m *Medication) error {
	m.Normalize()
	if err := validation.Check(m); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkDuplicate(ctx, m); err != nil {
			return err
		}
		if err := s.meds.Create(ctx, m); err != nil {
			return fmt.Errorf("create medication: %w", err)
		}
		return nil
	})
}

func (s *Service) UpdateMedication(ctx context.Context, m *Medication) error {
	m.Normalize()
	if err := validation.Check(m); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkDuplicate(ctx, m); err != nil {
			return err
		}
		return s.meds.Update(ctx, m)
	})
}

func (s *Service) DeleteMedication(ctx context.Context, din string) error {
	return s.meds.Delete(ctx, strings.TrimSpace(din))
}

func (s *Service) checkDuplicate(ctx context.Context, m *Medication) error {
	dup, err := s.meds.ExistsStrength(ctx, m.Name, m.Concentration, m.ConcentrationCode, m.DIN)
	if err != nil {
		return fmt.Errorf("check duplicate medication: %w", err)
	}
	if dup {
		return ErrDuplicate
	}
	return nil
}
