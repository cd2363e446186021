package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rgpatients/patients/internal/platform/auth"
	"github.com/rgpatients/patients/internal/platform/httperr"
	"github.com/rgpatients/patients/internal/platform/validation"
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
	readGroup.GET("/patients", h.ListPatients)
	readGroup.GET("/patients/:id", h.GetPatient)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleMembers))
	writeGroup.POST("/patients", h.CreatePatient)
	writeGroup.POST("/patients/validate", h.ValidatePatient)
	writeGroup.PUT("/patients/:id", h.UpdatePatient)
	writeGroup.DELETE("/patients/:id", h.DeletePatient)
}

// ValidationResult is the body of a dry-run validation.
type ValidationResult struct {
	Valid   bool                    `json:"valid"`
	Patient Patient                 `json:"patient"`
	Errors  []validation.FieldError `json:"errors"`
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = 0
	if err := h.svc.CreatePatient(c.Request().Context(), &p); err != nil {
		return httperr.Map(err, "patient")
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err, "patient")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatients(c.Request().Context(), c.QueryParam("name"), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Map(err, "patient")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePatient(c.Request().Context(), &p); err != nil {
		return httperr.Map(err, "patient")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		return httperr.Map(err, "patient")
	}
	return c.NoContent(http.StatusNoContent)
}

// ValidatePatient normalizes and checks a record without storing it.
func (h *Handler) ValidatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	normalized, fields, err := h.svc.Check(c.Request().Context(), p)
	if err != nil {
		return httperr.Map(err, "patient")
	}
	if fields == nil {
		fields = []validation.FieldError{}
	}
	return c.JSON(http.StatusOK, ValidationResult{Valid: len(fields) == 0, Patient: normalized, Errors: fields})
}
