package units

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rgpatients/patients/internal/platform/auth"
	"github.com/rgpatients/patients/internal/platform/httperr"
	"github.com/rgpatients/patients/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

var routes = map[Kind]string{
	Concentration: "/concentration-units",
	Dispensing:    "/dispensing-units",
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireAuthenticated())
	writeGroup := api.Group("", auth.RequireRole(auth.RoleMembers))
	for kind, path := range routes {
		readGroup.GET(path, h.List(kind))
		readGroup.GET(path+"/:code", h.Get(kind))
		writeGroup.POST(path, h.Create(kind))
		writeGroup.DELETE(path+"/:code", h.Delete(kind))
	}
}

func (h *Handler) List(kind Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		pg := pagination.FromContext(c)
		items, total, err := h.svc.List(c.Request().Context(), kind, pg.Limit, pg.Offset)
		if err != nil {
			return httperr.Map(err, "unit")
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
}

func (h *Handler) Get(kind Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := h.svc.Get(c.Request().Context(), kind, c.Param("code"))
		if err != nil {
			return httperr.Map(err, string(kind)+" unit")
		}
		return c.JSON(http.StatusOK, u)
	}
}

func (h *Handler) Create(kind Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var u Unit
		if err := c.Bind(&u); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if err := h.svc.Create(c.Request().Context(), kind, &u); err != nil {
			return httperr.Map(err, string(kind)+" unit")
		}
		return c.JSON(http.StatusCreated, u)
	}
}

func (h *Handler) Delete(kind Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.svc.Delete(c.Request().Context(), kind, c.Param("code")); err != nil {
			return httperr.Map(err, string(kind)+" unit")
		}
		return c.NoContent(http.StatusNoContent)
	}
}
