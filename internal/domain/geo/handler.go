package geo

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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Public
	api.GET("/countries", h.ListCountries)

	readGroup := api.Group("", auth.RequireAuthenticated())
	readGroup.GET("/countries/:code", h.GetCountry)
	readGroup.GET("/provinces", h.ListProvinces)
	readGroup.GET("/provinces/:code", h.GetProvince)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleMembers))
	writeGroup.POST("/countries", h.CreateCountry)
	writeGroup.PUT("/countries/:code", h.UpdateCountry)
	writeGroup.DELETE("/countries/:code", h.DeleteCountry)
}

// -- Country Handlers --

func (h *Handler) ListCountries(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListCountries(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Map(err, "country")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetCountry(c echo.Context) error {
	country, err := h.svc.GetCountry(c.Request().Context(), c.Param("code"))
	if err != nil {
		return httperr.Map(err, "country")
	}
	return c.JSON(http.StatusOK, country)
}

func (h *Handler) CreateCountry(c echo.Context) error {
	var country Country
	if err := c.Bind(&country); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCountry(c.Request().Context(), &country); err != nil {
		return httperr.Map(err, "country")
	}
	return c.JSON(http.StatusCreated, country)
}

func (h *Handler) UpdateCountry(c echo.Context) error {
	var country Country
	if err := c.Bind(&country); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	country.Code = c.Param("code")
	if err := h.svc.UpdateCountry(c.Request().Context(), &country); err != nil {
		return httperr.Map(err, "country")
	}
	return c.JSON(http.StatusOK, country)
}

func (h *Handler) DeleteCountry(c echo.Context) error {
	if err := h.svc.DeleteCountry(c.Request().Context(), c.Param("code")); err != nil {
		return httperr.Map(err, "country")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Province Handlers --

func (h *Handler) ListProvinces(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListProvinces(c.Request().Context(), c.QueryParam("country"), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.Map(err, "province")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetProvince(c echo.Context) error {
	p, err := h.svc.GetProvince(c.Request().Context(), c.Param("code"))
	if err != nil {
		return httperr.Map(err, "province")
	}
	return c.JSON(http.StatusOK, p)
}
