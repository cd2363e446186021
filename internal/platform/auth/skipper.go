package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// publicRoutes bypass authentication. Keys are "METHOD route-pattern".
var publicRoutes = map[string]bool{
	"GET /health":           true,
	"GET /health/db":        true,
	"GET /api/v1/countries": true,
}

// Skipper reports whether the matched route is public.
func Skipper(c echo.Context) bool {
	return IsPublicRoute(c.Request().Method, c.Path())
}

func IsPublicRoute(method, path string) bool {
	if method == http.MethodHead {
		method = http.MethodGet
	}
	return publicRoutes[method+" "+path]
}
