package treatment

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rgpatients/patients/internal/domain/diagnosis"
	"github.com/rgpatients/patients/internal/platform/db"
	"github.com/rgpatients/patients/internal/platform/validation"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// -- Mock Repositories --

type mockTreatmentRepo struct {
	treatments map[int]*Treatment
	meds       map[int][]*TreatmentMedication
}

func (m *mockTreatmentRepo) GetByID(_ context.Context, id int) (*Treatment, error) {
	t, ok := m.treatments[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return t, nil
}

func (m *mockTreatmentRepo) List(_ context.Context, diagnosisID, limit, offset int) ([]*Treatment, int, error) {
	var result []*Treatment
	for _, t := range m.treatments {
		if diagnosisID == 0 || t.DiagnosisID == diagnosisID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, len(result), nil
}

func (m *mockTreatmentRepo) Medications(_ context.Context, treatmentID int) ([]*TreatmentMedication, error) {
	return m.meds[treatmentID], nil
}

type mockPatientTreatmentRepo struct {
	rows       map[int]*PatientTreatment
	nextID     int
	treatments *mockTreatmentRepo
}

func (m *mockPatientTreatmentRepo) store(pt *PatientTreatment) {
	stored := *pt
	if t, ok := m.treatments.treatments[pt.TreatmentID]; ok {
		stored.TreatmentName = t.Name
	}
	m.rows[pt.ID] = &stored
}

func (m *mockPatientTreatmentRepo) Create(_ context.Context, pt *PatientTreatment) error {
	pt.ID = m.nextID
	m.nextID++
	m.store(pt)
	return nil
}

func (m *mockPatientTreatmentRepo) GetByID(_ context.Context, id int) (*PatientTreatment, error) {
	pt, ok := m.rows[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return pt, nil
}

func (m *mockPatientTreatmentRepo) Update(_ context.Context, pt *PatientTreatment) error {
	if _, ok := m.rows[pt.ID]; !ok {
		return db.ErrNotFound
	}
	m.store(pt)
	return nil
}

func (m *mockPatientTreatmentRepo) Delete(_ context.Context, id int) error {
	if _, ok := m.rows[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *mockPatientTreatmentRepo) List(_ context.Context, patientDiagnosisID, limit, offset int) ([]*PatientTreatment, int, error) {
	var result []*PatientTreatment
	for _, pt := range m.rows {
		if pt.PatientDiagnosisID == patientDiagnosisID {
			result = append(result, pt)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DatePrescribed.After(*result[j].DatePrescribed) })
	return result, len(result), nil
}

type mockPatientMedicationRepo struct {
	rows   map[int]*PatientMedication
	nextID int
}

func (m *mockPatientMedicationRepo) Create(_ context.Context, pm *PatientMedication) error {
	pm.ID = m.nextID
	m.nextID++
	stored := *pm
	stored.MedicationName = "Drug " + pm.DIN
	m.rows[pm.ID] = &stored
	return nil
}

func (m *mockPatientMedicationRepo) GetByID(_ context.Context, id int) (*PatientMedication, error) {
	pm, ok := m.rows[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return pm, nil
}

func (m *mockPatientMedicationRepo) Delete(_ context.Context, id int) error {
	if _, ok := m.rows[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *mockPatientMedicationRepo) List(_ context.Context, patientTreatmentID int) ([]*PatientMedication, error) {
	var result []*PatientMedication
	for _, pm := range m.rows {
		if pm.PatientTreatmentID == patientTreatmentID {
			result = append(result, pm)
		}
	}
	return result, nil
}

type fakeDiagnoses map[int]*diagnosis.PatientDiagnosis

func (f fakeDiagnoses) GetPatientDiagnosis(_ context.Context, id int) (*diagnosis.PatientDiagnosis, error) {
	pd, ok := f[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return pd, nil
}

func newTestService() *Service {
	treatments := &mockTreatmentRepo{
		treatments: map[int]*Treatment{
			1: {ID: 1, Name: "Blood Pressure Management", DiagnosisID: 1},
			2: {ID: 2, Name: "Inhaled Bronchodilator", DiagnosisID: 2},
		},
		meds: map[int][]*TreatmentMedication{2: {{DIN: "02242903", Name: "Salbutamol"}}},
	}
	svc := NewService(
		treatments,
		&mockPatientTreatmentRepo{rows: make(map[int]*PatientTreatment), nextID: 1, treatments: treatments},
		&mockPatientMedicationRepo{rows: make(map[int]*PatientMedication), nextID: 1},
		fakeDiagnoses{
			5: {ID: 5, PatientID: 10, DiagnosisID: 1, PatientName: "Smith, John", DiagnosisName: "Hypertension"},
			6: {ID: 6, PatientID: 11, DiagnosisID: 2, PatientName: "Adams, Amy", DiagnosisName: "Asthma"},
		},
	)
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	ve, ok := validation.AsError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	out := make(map[string]string)
	for _, f := range ve.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestCreatePatientTreatment_DefaultsDate(t *testing.T) {
	svc := newTestService()
	pt, err := svc.CreatePatientTreatment(context.Background(), &PatientTreatment{TreatmentID: 1, PatientDiagnosisID: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.DatePrescribed == nil || !pt.DatePrescribed.Equal(fixedNow) {
		t.Errorf("expected date prescribed %v, got %v", fixedNow, pt.DatePrescribed)
	}
	if pt.TreatmentName != "Blood Pressure Management" {
		t.Errorf("unexpected treatment name %q", pt.TreatmentName)
	}
}

func TestCreatePatientTreatment_FutureDate(t *testing.T) {
	svc := newTestService()
	future := fixedNow.Add(48 * time.Hour)
	_, err := svc.CreatePatientTreatment(context.Background(), &PatientTreatment{TreatmentID: 1, PatientDiagnosisID: 5, DatePrescribed: &future})
	if msg := fieldMessages(t, err)["date_prescribed"]; msg != "date prescribed cannot be in the future" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestCreatePatientTreatment_WrongDiagnosis(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreatePatientTreatment(context.Background(), &PatientTreatment{TreatmentID: 2, PatientDiagnosisID: 5})
	if msg := fieldMessages(t, err)["treatment_id"]; msg != "treatment is not offered for Hypertension" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestCreatePatientTreatment_UnknownReferences(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreatePatientTreatment(ctx, &PatientTreatment{TreatmentID: 1, PatientDiagnosisID: 99})
	if _, ok := fieldMessages(t, err)["patient_diagnosis_id"]; !ok {
		t.Errorf("expected patient_diagnosis_id error, got %v", err)
	}
	_, err = svc.CreatePatientTreatment(ctx, &PatientTreatment{TreatmentID: 99, PatientDiagnosisID: 5})
	if msg := fieldMessages(t, err)["treatment_id"]; msg != "treatment not on file" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestCreatePatientTreatment_MissingTreatment(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreatePatientTreatment(context.Background(), &PatientTreatment{PatientDiagnosisID: 5})
	if _, ok := fieldMessages(t, err)["treatment_id"]; !ok {
		t.Errorf("expected treatment_id error, got %v", err)
	}
}

func TestUpdatePatientTreatment(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	pt, _ := svc.CreatePatientTreatment(ctx, &PatientTreatment{TreatmentID: 1, PatientDiagnosisID: 5})

	note := "  reduce salt  "
	updated, err := svc.UpdatePatientTreatment(ctx, &PatientTreatment{ID: pt.ID, TreatmentID: 1, PatientDiagnosisID: 5, Comments: &note})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Comments == nil || *updated.Comments != "reduce salt" {
		t.Errorf("expected trimmed comments, got %v", updated.Comments)
	}
	if _, err := svc.UpdatePatientTreatment(ctx, &PatientTreatment{ID: 42, TreatmentID: 1, PatientDiagnosisID: 5}); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestListPatientTreatments_NewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	older := fixedNow.AddDate(0, -2, 0)
	svc.CreatePatientTreatment(ctx, &PatientTreatment{TreatmentID: 1, PatientDiagnosisID: 5, DatePrescribed: &older})
	svc.CreatePatientTreatment(ctx, &PatientTreatment{TreatmentID: 1, PatientDiagnosisID: 5})
	svc.CreatePatientTreatment(ctx, &PatientTreatment{TreatmentID: 2, PatientDiagnosisID: 6})

	items, total, err := svc.ListPatientTreatments(ctx, 5, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2, got %d", total)
	}
	if !items[0].DatePrescribed.Equal(fixedNow) {
		t.Errorf("expected newest first, got %v", items[0].DatePrescribed)
	}
}

func TestAddPatientMedication_DefaultsExact(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	pt, _ := svc.CreatePatientTreatment(ctx, &PatientTreatment{TreatmentID: 1, PatientDiagnosisID: 5})

	pm, err := svc.AddPatientMedication(ctx, &PatientMedication{PatientTreatmentID: pt.ID, DIN: " 00012345 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pm.ExactMinMax != DoseExact || pm.DIN != "00012345" {
		t.Errorf("unexpected medication %+v", pm)
	}
}

func TestAddPatientMedication_Invalid(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	pt, _ := svc.CreatePatientTreatment(ctx, &PatientTreatment{TreatmentID: 1, PatientDiagnosisID: 5})

	neg := -1.0
	_, err := svc.AddPatientMedication(ctx, &PatientMedication{PatientTreatmentID: pt.ID, DIN: "00012345", ExactMinMax: "roughly", Dose: &neg})
	msgs := fieldMessages(t, err)
	if _, ok := msgs["exact_min_max"]; !ok {
		t.Errorf("expected exact_min_max error, got %v", msgs)
	}
	if _, ok := msgs["dose"]; !ok {
		t.Errorf("expected dose error, got %v", msgs)
	}
}

func TestAddPatientMedication_UnknownTreatment(t *testing.T) {
	svc := newTestService()
	_, err := svc.AddPatientMedication(context.Background(), &PatientMedication{PatientTreatmentID: 7, DIN: "00012345"})
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestTreatmentMedications(t *testing.T) {
	svc := newTestService()
	items, err := svc.TreatmentMedications(context.Background(), 2)
	if err != nil || len(items) != 1 || items[0].Name != "Salbutamol" {
		t.Errorf("unexpected medications %v, %v", items, err)
	}
	if _, err := svc.TreatmentMedications(context.Background(), 9); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
