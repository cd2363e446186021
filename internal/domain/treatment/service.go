package treatment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rgpatients/patients/internal/domain/diagnosis"
	"github.com/rgpatients/patients/internal/platform/db"
	"github.com/rgpatients/patients/internal/platform/validation"
)

// PatientDiagnosisLookup resolves the patient diagnosis a treatment is
// prescribed under.
type PatientDiagnosisLookup interface {
	GetPatientDiagnosis(ctx context.Context, id int) (*diagnosis.PatientDiagnosis, error)
}

type Service struct {
	treatments TreatmentRepository
	prescribed PatientTreatmentRepository
	meds       PatientMedicationRepository
	diagnoses  PatientDiagnosisLookup

	Now func() time.Time
}

func NewService(treatments TreatmentRepository, prescribed PatientTreatmentRepository, meds PatientMedicationRepository, diagnoses PatientDiagnosisLookup) *Service {
	return &Service{
		treatments: treatments,
		prescribed: prescribed,
		meds:       meds,
		diagnoses:  diagnoses,
		Now:        time.Now,
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// -- Treatment --

func (s *Service) GetTreatment(ctx context.Context, id int) (*Treatment, error) {
	return s.treatments.GetByID(ctx, id)
}

func (s *Service) ListTreatments(ctx context.Context, diagnosisID, limit, offset int) ([]*Treatment, int, error) {
	return s.treatments.List(ctx, diagnosisID, limit, offset)
}

func (s *Service) TreatmentMedications(ctx context.Context, treatmentID int) ([]*TreatmentMedication, error) {
	if _, err := s.treatments.GetByID(ctx, treatmentID); err != nil {
		return nil, err
	}
	return s.treatments.Medications(ctx, treatmentID)
}

// -- Patient Treatment --

// PatientDiagnosis returns the patient diagnosis the treatments are listed under.
func (s *Service) PatientDiagnosis(ctx context.Context, id int) (*diagnosis.PatientDiagnosis, error) {
	return s.diagnoses.GetPatientDiagnosis(ctx, id)
}

// check normalizes pt and collects every field error, including a treatment
// that does not apply to the patient's diagnosis.
func (s *Service) check(ctx context.Context, pt *PatientTreatment) error {
	pt.Comments = trimOptional(pt.Comments)
	now := s.Now()
	if pt.DatePrescribed == nil {
		pt.DatePrescribed = &now
	}
	fields := validation.Struct(pt)
	if pt.DatePrescribed.After(now) {
		fields = append(fields, validation.FieldError{Field: "date_prescribed", Message: "date prescribed cannot be in the future"})
	}
	if len(fields) > 0 {
		return validation.NewError(fields...)
	}

	pd, err := s.diagnoses.GetPatientDiagnosis(ctx, pt.PatientDiagnosisID)
	if errors.Is(err, db.ErrNotFound) {
		return validation.NewError(validation.FieldError{Field: "patient_diagnosis_id", Message: "patient diagnosis not on file"})
	}
	if err != nil {
		return err
	}
	t, err := s.treatments.GetByID(ctx, pt.TreatmentID)
	if errors.Is(err, db.ErrNotFound) {
		return validation.NewError(validation.FieldError{Field: "treatment_id", Message: "treatment not on file"})
	}
	if err != nil {
		return err
	}
	if t.DiagnosisID != pd.DiagnosisID {
		return validation.NewError(validation.FieldError{Field: "treatment_id", Message: "treatment is not offered for " + pd.DiagnosisName})
	}
	return nil
}

func (s *Service) CreatePatientTreatment(ctx context.Context, pt *PatientTreatment) (*PatientTreatment, error) {
	if err := s.check(ctx, pt); err != nil {
		return nil, err
	}
	if err := s.prescribed.Create(ctx, pt); err != nil {
		return nil, fmt.Errorf("create patient treatment: %w", err)
	}
	return s.prescribed.GetByID(ctx, pt.ID)
}

func (s *Service) GetPatientTreatment(ctx context.Context, id int) (*PatientTreatment, error) {
	return s.prescribed.GetByID(ctx, id)
}

func (s *Service) UpdatePatientTreatment(ctx context.Context, pt *PatientTreatment) (*PatientTreatment, error) {
	if err := s.check(ctx, pt); err != nil {
		return nil, err
	}
	if err := s.prescribed.Update(ctx, pt); err != nil {
		return nil, err
	}
	return s.prescribed.GetByID(ctx, pt.ID)
}

func (s *Service) DeletePatientTreatment(ctx context.Context, id int) error {
	return s.prescribed.Delete(ctx, id)
}

func (s *Service) ListPatientTreatments(ctx context.Context, patientDiagnosisID, limit, offset int) ([]*PatientTreatment, int, error) {
	return s.prescribed.List(ctx, patientDiagnosisID, limit, offset)
}

// -- Patient Medication --

func (s *Service) AddPatientMedication(ctx context.Context, pm *PatientMedication) (*PatientMedication, error) {
	pm.DIN = strings.TrimSpace(pm.DIN)
	pm.FrequencyPeriod = trimOptional(pm.FrequencyPeriod)
	pm.Comments = trimOptional(pm.Comments)
	pm.ExactMinMax = strings.ToLower(strings.TrimSpace(pm.ExactMinMax))
	if pm.ExactMinMax == "" {
		pm.ExactMinMax = DoseExact
	}
	if err := validation.Check(pm); err != nil {
		return nil, err
	}
	if _, err := s.prescribed.GetByID(ctx, pm.PatientTreatmentID); err != nil {
		return nil, err
	}
	if err := s.meds.Create(ctx, pm); err != nil {
		return nil, fmt.Errorf("add patient medication: %w", err)
	}
	return s.meds.GetByID(ctx, pm.ID)
}

func (s *Service) ListPatientMedications(ctx context.Context, patientTreatmentID int) ([]*PatientMedication, error) {
	if _, err := s.prescribed.GetByID(ctx, patientTreatmentID); err != nil {
		return nil, err
	}
	return s.meds.List(ctx, patientTreatmentID)
}

func (s *Service) DeletePatientMedication(ctx context.Context, id int) error {
	return s.meds.Delete(ctx, id)
}
