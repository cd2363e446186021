package diagnosis

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rgpatients/patients/internal/platform/auth"
	"github.com/rgpatients/patients/internal/platform/httperr"
	"github.com/rgpatients/patients/internal/platform/session"
	"github.com/rgpatients/patients/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireAuthenticated())
	readGroup.GET("/diagnosis-categories", h.ListCategories)
	readGroup.GET("/diagnoses", h.ListDiagnoses)
	readGroup.GET("/diagnoses/:id", h.GetDiagnosis)
	readGroup.GET("/patient-diagnoses", h.ListPatientDiagnoses)
	readGroup.GET("/patient-diagnoses/:id", h.GetPatientDiagnosis)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleMembers))
	writeGroup.POST("/patient-diagnoses", h.CreatePatientDiagnosis)
	writeGroup.PUT("/patient-diagnoses/:id", h.UpdatePatientDiagnosis)
	writeGroup.DELETE("/patient-diagnoses/:id", h.DeletePatientDiagnosis)
}

func (h *Handler) ListCategories(c echo.Context) error {
	items, err := h.svc.ListCategories(c.Request().Context())
	if err != nil {
		return httperr.Map(err, "diagnosis category")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, len(items), len(items), 0))
}

func (h *Handler) ListDiagnoses(c echo.Context) error {
	categoryID, err := httperr.IntQuery(c, "category_id")
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDiagnoses(c.Request().Context(), categoryID, pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Map(err, "diagnosis")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetDiagnosis(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	d, err := h.svc.GetDiagnosis(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err, "diagnosis")
	}
	return c.JSON(http.StatusOK, d)
}

// -- Patient Diagnosis Handlers --

func (h *Handler) ListPatientDiagnoses(c echo.Context) error {
	patientID, err := httperr.IntQuery(c, "patient_id")
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatientDiagnoses(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Map(err, "patient diagnosis")
	}
	resp := pagination.NewResponse(items, total, pg.Limit, pg.Offset).WithMessage(session.TakeFlash(c))
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetPatientDiagnosis(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	pd, err := h.svc.GetPatientDiagnosis(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err, "patient diagnosis")
	}
	return c.JSON(http.StatusOK, pd)
}

func (h *Handler) CreatePatientDiagnosis(c echo.Context) error {
	var pd PatientDiagnosis
	if err := c.Bind(&pd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.CreatePatientDiagnosis(c.Request().Context(), &pd)
	if err != nil {
		return httperr.Map(err, "patient diagnosis")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdatePatientDiagnosis(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	var pd PatientDiagnosis
	if err := c.Bind(&pd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pd.ID = id
	updated, err := h.svc.UpdatePatientDiagnosis(c.Request().Context(), &pd)
	if err != nil {
		return httperr.Map(err, "patient diagnosis")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeletePatientDiagnosis(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatientDiagnosis(c.Request().Context(), id); err != nil {
		return httperr.Map(err, "patient diagnosis")
	}
	return c.NoContent(http.StatusNoContent)
}
