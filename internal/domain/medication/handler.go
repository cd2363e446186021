package medication

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rgpatients/patients/internal/platform/auth"
	"github.com/rgpatients/patients/internal/platform/db"
	"github.com/rgpatients/patients/internal/platform/httperr"
	"github.com/rgpatients/patients/internal/platform/session"
	"github.com/rgpatients/patients/pkg/pagination"
)

const (
	typesPath = "/api/v1/medication-types"

	msgSelectType       = "Please select a Medication Type"
	msgSelectTypeCreate = "Select medication type to see its medications."
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireAuthenticated())
	readGroup.GET("/medication-types", h.ListTypes)
	readGroup.GET("/medication-types/:id", h.GetType)
	readGroup.GET("/medications", h.ListMedications)
	readGroup.GET("/medications/:din", h.GetMedication)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleMembers))
	writeGroup.POST("/medication-types", h.CreateType)
	writeGroup.PUT("/medication-types/:id", h.UpdateType)
	writeGroup.DELETE("/medication-types/:id", h.DeleteType)
	writeGroup.POST("/medications", h.CreateMedication)
	writeGroup.PUT("/medications/:din", h.UpdateMedication)
	writeGroup.DELETE("/medications/:din", h.DeleteMedication)
}

func mapError(err error, resource string) error {
	if errors.Is(err, ErrDuplicate) {
		return echo.NewHTTPError(http.StatusConflict, ErrDuplicate.Error())
	}
	return httperr.Map(err, resource)
}

// -- Medication Type Handlers --

func (h *Handler) ListTypes(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListTypes(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Map(err, "medication type")
	}
	resp := pagination.NewResponse(items, total, pg.Limit, pg.Offset).WithMessage(session.TakeFlash(c))
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetType(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	t, err := h.svc.GetType(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err, "medication type")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) CreateType(c echo.Context) error {
	var t MedicationType
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateType(c.Request().Context(), &t); err != nil {
		return httperr.Map(err, "medication type")
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateType(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	var t MedicationType
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = id
	if err := h.svc.UpdateType(c.Request().Context(), &t); err != nil {
		return httperr.Map(err, "medication type")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteType(c echo.Context) error {
	id, err := httperr.IntParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteType(c.Request().Context(), id); err != nil {
		return httperr.Map(err, "medication type")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Medication Handlers --

// ListMedications lists the medications of the selected medication type. The
// selection comes from ?MedicationTypeId= (remembered in a cookie) or the
// cookie; without one the caller is sent back to the medication types.
func (h *Handler) ListMedications(c echo.Context) error {
	typeID, ok := session.Select(c, session.MedicationTypeKey, 0)
	if !ok {
		return session.RedirectWithFlash(c, typesPath, msgSelectType)
	}
	pg := pagination.FromContext(c)
	items, total, t, err := h.svc.ListMedications(c.Request().Context(), typeID, pg.Limit, pg.Offset)
	if errors.Is(err, db.ErrNotFound) {
		return session.RedirectWithFlash(c, typesPath, msgSelectType)
	}
	if err != nil {
		return httperr.Map(err, "medication")
	}
	resp := pagination.NewResponse(items, total, pg.Limit, pg.Offset).
		WithMessage(session.TakeFlash(c)).
		With("medication_type_name", t.Name)
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetMedication(c echo.Context) error {
	m, err := h.svc.GetMedication(c.Request().Context(), c.Param("din"))
	if err != nil {
		return httperr.Map(err, "medication")
	}
	return c.JSON(http.StatusOK, m)
}

// CreateMedication files the new medication under the selected medication type.
func (h *Handler) CreateMedication(c echo.Context) error {
	typeID, ok := session.Current(c, session.MedicationTypeKey)
	if !ok {
		return session.RedirectWithFlash(c, typesPath, msgSelectTypeCreate)
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.MedicationTypeID = typeID
	if err := h.svc.CreateMedication(c.Request().Context(), &m); err != nil {
		return mapError(err, "medication")
	}
	return c.JSON(http.StatusCreated, m)
}

// UpdateMedication replaces the medication at :din. A current medication type
// selection overrides the type in the body.
func (h *Handler) UpdateMedication(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if m.DIN != "" && m.DIN != c.Param("din") {
		return echo.NewHTTPError(http.StatusBadRequest, "din in body does not match path")
	}
	m.DIN = c.Param("din")
	if typeID, ok := session.Current(c, session.MedicationTypeKey); ok {
		m.MedicationTypeID = typeID
	}
	if err := h.svc.UpdateMedication(c.Request().Context(), &m); err != nil {
		return mapError(err, "medication")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMedication(c echo.Context) error {
	if err := h.svc.DeleteMedication(c.Request().Context(), c.Param("din")); err != nil {
		return httperr.Map(err, "medication")
	}
	return c.NoContent(http.StatusNoContent)
}
