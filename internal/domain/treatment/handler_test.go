package treatment

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rgpatients/patients/internal/platform/session"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

type listBody struct {
	Total   int               `json:"total"`
	Message string            `json:"message"`
	Context map[string]string `json:"context"`
}

func TestHandler_ListPatientTreatments_NoSelectionRedirects(t *testing.T) {
	h, e := newTestHandler()
	rec := httptest.NewRecorder()
	if err := h.ListPatientTreatments(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/patient-treatments", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != patientDiagnosesPath {
		t.Errorf("unexpected location %q", loc)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "message=") {
		t.Error("expected flash cookie")
	}
}

func TestHandler_ListPatientTreatments_LooksUpNames(t *testing.T) {
	h, e := newTestHandler()
	h.svc.CreatePatientTreatment(nil, &PatientTreatment{TreatmentID: 1, PatientDiagnosisID: 5})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patient-treatments?"+session.PatientDiagnosisKey+"=5", nil)
	rec := httptest.NewRecorder()
	if err := h.ListPatientTreatments(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body listBody
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Total != 1 {
		t.Errorf("expected 1, got %d", body.Total)
	}
	if body.Context["patient_name"] != "Smith, John" || body.Context["diagnosis_name"] != "Hypertension" {
		t.Errorf("unexpected context %v", body.Context)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), session.PatientDiagnosisKey+"=5") {
		t.Error("expected selection to be remembered")
	}
}

func TestHandler_ListPatientTreatments_NamesFromQuery(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patient-treatments?PatientName=Doe,+Jane&DiagnosisName=Gout", nil)
	req.AddCookie(&http.Cookie{Name: session.PatientDiagnosisKey, Value: "6"})
	rec := httptest.NewRecorder()
	if err := h.ListPatientTreatments(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body listBody
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Context["patient_name"] != "Doe, Jane" || body.Context["diagnosis_name"] != "Gout" {
		t.Errorf("unexpected context %v", body.Context)
	}
}

func TestHandler_ListPatientTreatments_UnknownDiagnosisRedirects(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patient-treatments?"+session.PatientDiagnosisKey+"=77", nil)
	rec := httptest.NewRecorder()
	if err := h.ListPatientTreatments(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rec.Code)
	}
}

func TestHandler_CreatePatientTreatment_UsesSelection(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patient-treatments", strings.NewReader(`{"treatment_id":2,"patient_diagnosis_id":5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: session.PatientDiagnosisKey, Value: "6"})
	rec := httptest.NewRecorder()
	if err := h.CreatePatientTreatment(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var pt PatientTreatment
	json.Unmarshal(rec.Body.Bytes(), &pt)
	if pt.PatientDiagnosisID != 6 {
		t.Errorf("expected selection 6, got %d", pt.PatientDiagnosisID)
	}
}

func TestHandler_CreatePatientTreatment_NoSelection(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patient-treatments", strings.NewReader(`{"treatment_id":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.CreatePatientTreatment(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rec.Code)
	}
}

func TestHandler_CreatePatientTreatment_WrongDiagnosis(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patient-treatments", strings.NewReader(`{"treatment_id":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: session.PatientDiagnosisKey, Value: "6"})

	err := h.CreatePatientTreatment(e.NewContext(req, httptest.NewRecorder()))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %v", err)
	}
}

func TestHandler_AddAndListPatientMedications(t *testing.T) {
	h, e := newTestHandler()
	pt, _ := h.svc.CreatePatientTreatment(nil, &PatientTreatment{TreatmentID: 1, PatientDiagnosisID: 5})
	id := strconv.Itoa(pt.ID)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"din":"00012345","dose":5,"exact_min_max":"max"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h.AddPatientMedication(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h.ListPatientMedications(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body listBody
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Total != 1 {
		t.Errorf("expected 1 medication, got %d", body.Total)
	}
}

func TestHandler_DeletePatientMedication_NotFound(t *testing.T) {
	h, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("3")

	var he *echo.HTTPError
	if err := h.DeletePatientMedication(c); !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_ListTreatments_ByDiagnosis(t *testing.T) {
	h, e := newTestHandler()
	rec := httptest.NewRecorder()
	if err := h.ListTreatments(e.NewContext(httptest.NewRequest(http.MethodGet, "/?diagnosis_id=2", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body listBody
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Total != 1 {
		t.Errorf("expected 1 treatment, got %d", body.Total)
	}
}
