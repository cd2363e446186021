package treatment

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rgpatients/patients/internal/platform/auth"
	"github.com/rgpatients/patients/internal/platform/db"
	"github.com/rgpatients/patients/internal/platform/httperr"
	"github.com/rgpatients/patients/internal/platform/session"
	"github.com/rgpatients/patients/pkg/pagination"
)

const (
	patientDiagnosesPath = "/api/v1/patient-diagnoses"

	msgSelectDiagnosis = "Please select a Patient's Diagnosis"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireAuthenticated())
	readGroup.GET("/treatments", h.ListTreatments)
	readGroup.GET("/treatments/:id", h.GetTreatment)
	readGroup.GET("/treatments/:id/medications", h.TreatmentMedications)
	readGroup.GET("/patient-treatments", h.ListPatientTreatments)
	readGroup.GET("/patient-treatments/:id", h.GetPatientTreatment)
	readGroup.GET("/patient-treatments/:id/medications", h.ListPatientMedications)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleMembers))
	writeGroup.POST("/patient-treatments", h.CreatePatientTreatment)
	writeGroup.PUT("/patient-treatments/:id", h.UpdatePatientTreatment)
	writeGroup.DELETE("/patient-treatments/:id", h.DeletePatientTreatment)
	writeGroup.POST("/patient-treatments/:id/medications", h.AddPatientMedication)
	writeGroup.DELETE("/patient-medications/:id", h.DeletePatientMedication)
}

// -- Treatment Handlers --

func (h *Handler) ListTreatments(c echo.Context) error {
	diagnosisID, err := httperr.IntQuery(c, "diagnosis_id")
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListTreatments(c.Request().Context(), diagnosisID, pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Map(err, "treatment")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetTreatment(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	t, err := h.svc.GetTreatment(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err, "treatment")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) TreatmentMedications(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.TreatmentMedications(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err, "treatment")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, len(items), len(items), 0))
}

// -- Patient Treatment Handlers --

// ListPatientTreatments lists the treatments of the selected patient
// diagnosis. Callers that already know the names pass PatientName and
// DiagnosisName to skip the lookup.
func (h *Handler) ListPatientTreatments(c echo.Context) error {
	pdID, ok := session.Select(c, session.PatientDiagnosisKey, 0)
	if !ok {
		return session.RedirectWithFlash(c, patientDiagnosesPath, msgSelectDiagnosis)
	}
	ctx := c.Request().Context()

	patientName := strings.TrimSpace(c.QueryParam("PatientName"))
	diagnosisName := strings.TrimSpace(c.QueryParam("DiagnosisName"))
	if patientName == "" || diagnosisName == "" {
		pd, err := h.svc.PatientDiagnosis(ctx, pdID)
		if errors.Is(err, db.ErrNotFound) {
			return session.RedirectWithFlash(c, patientDiagnosesPath, msgSelectDiagnosis)
		}
		if err != nil {
			return httperr.Map(err, "patient diagnosis")
		}
		patientName, diagnosisName = pd.PatientName, pd.DiagnosisName
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatientTreatments(ctx, pdID, pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Map(err, "patient treatment")
	}
	resp := pagination.NewResponse(items, total, pg.Limit, pg.Offset).
		WithMessage(session.TakeFlash(c)).
		With("patient_name", patientName).
		With("diagnosis_name", diagnosisName)
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetPatientTreatment(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	pt, err := h.svc.GetPatientTreatment(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err, "patient treatment")
	}
	return c.JSON(http.StatusOK, pt)
}

func (h *Handler) CreatePatientTreatment(c echo.Context) error {
	pdID, ok := session.Current(c, session.PatientDiagnosisKey)
	if !ok {
		return session.RedirectWithFlash(c, patientDiagnosesPath, msgSelectDiagnosis)
	}
	var pt PatientTreatment
	if err := c.Bind(&pt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pt.PatientDiagnosisID = pdID
	created, err := h.svc.CreatePatientTreatment(c.Request().Context(), &pt)
	if err != nil {
		return httperr.Map(err, "patient treatment")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdatePatientTreatment(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	var pt PatientTreatment
	if err := c.Bind(&pt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pt.ID = id
	if pdID, ok := session.Current(c, session.PatientDiagnosisKey); ok {
		pt.PatientDiagnosisID = pdID
	}
	updated, err := h.svc.UpdatePatientTreatment(c.Request().Context(), &pt)
	if err != nil {
		return httperr.Map(err, "patient treatment")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeletePatientTreatment(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatientTreatment(c.Request().Context(), id); err != nil {
		return httperr.Map(err, "patient treatment")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Patient Medication Handlers --

func (h *Handler) ListPatientMedications(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListPatientMedications(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err, "patient treatment")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, len(items), len(items), 0))
}

func (h *Handler) AddPatientMedication(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	var pm PatientMedication
	if err := c.Bind(&pm); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pm.PatientTreatmentID = id
	created, err := h.svc.AddPatientMedication(c.Request().Context(), &pm)
	if err != nil {
		return httperr.Map(err, "patient treatment")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) DeletePatientMedication(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatientMedication(c.Request().Context(), id); err != nil {
		return httperr.Map(err, "patient medication")
	}
	return c.NoContent(http.StatusNoContent)
}
