package diagnosis

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgpatients/patients/internal/platform/validation"
)

type Service struct {
	categories CategoryRepository
	diagnoses  DiagnosisRepository
	patients   PatientDiagnosisRepository
}

func NewService(categories CategoryRepository, diagnoses DiagnosisRepository, patients PatientDiagnosisRepository) *Service {
	return &Service{categories: categories, diagnoses: diagnoses, patients: patients}
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) GetDiagnosis(ctx context.Context, id int) (*Diagnosis, error) {
	return s.diagnoses.GetByID(ctx, id)
}

func (s *Service) ListDiagnoses(ctx context.Context, categoryID, limit, offset int) ([]*Diagnosis, int, error) {
	return s.diagnoses.List(ctx, categoryID, limit, offset)
}

// -- Patient Diagnosis --

func normalizeComments(pd *PatientDiagnosis) {
	if pd.Comments == nil {
		return
	}
	c := strings.TrimSpace(*pd.Comments)
	if c == "" {
		pd.Comments = nil
		return
	}
	pd.Comments = &c
}

// CreatePatientDiagnosis stores pd and returns it reloaded with the patient
// and diagnosis names.
func (s *Service) CreatePatientDiagnosis(ctx context.Context, pd *PatientDiagnosis) (*PatientDiagnosis, error) {
	normalizeComments(pd)
	if err := validation.Check(pd); err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, pd); err != nil {
		return nil, fmt.Errorf("create patient diagnosis: %w", err)
	}
	return s.patients.GetByID(ctx, pd.ID)
}

func (s *Service) GetPatientDiagnosis(ctx context.Context, id int) (*PatientDiagnosis, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatientDiagnosis(ctx context.Context, pd *PatientDiagnosis) (*PatientDiagnosis, error) {
	normalizeComments(pd)
	if err := validation.Check(pd); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, pd); err != nil {
		return nil, err
	}
	return s.patients.GetByID(ctx, pd.ID)
}

func (s *Service) DeletePatientDiagnosis(ctx context.Context, id int) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatientDiagnoses(ctx context.Context, patientID, limit, offset int) ([]*PatientDiagnosis, int, error) {
	return s.patients.List(ctx, patientID, limit, offset)
}
