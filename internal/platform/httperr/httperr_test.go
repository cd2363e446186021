package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rgpatients/patients/internal/platform/db"
	"github.com/rgpatients/patients/internal/platform/validation"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	return he.Code
}

func TestMap(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("get: %w", db.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: unit_pkey", db.ErrConflict), http.StatusConflict},
		{"validation", validation.NewError(validation.FieldError{Field: "f", Message: "m"}), http.StatusUnprocessableEntity},
		{"http error", echo.NewHTTPError(http.StatusTeapot, "tea"), http.StatusTeapot},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusOf(t, Map(tc.err, "patient")); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
	if Map(nil, "patient") != nil {
		t.Error("expected nil for nil error")
	}
}

func TestMap_NotFoundMessage(t *testing.T) {
	var he *echo.HTTPError
	errors.As(Map(db.ErrNotFound, "medication"), &he)
	if he.Message != "medication not found" {
		t.Errorf("unexpected message %v", he.Message)
	}
}

func TestIntParam(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("42")
	if id, err := IntParam(c, "id"); err != nil || id != 42 {
		t.Errorf("expected 42, got %d (%v)", id, err)
	}

	c.SetParamValues("abc")
	if _, err := IntParam(c, "id"); statusOf(t, err) != http.StatusBadRequest {
		t.Error("expected 400 for non-numeric id")
	}
	c.SetParamValues("0")
	if _, err := IntParam(c, "id"); err == nil {
		t.Error("expected error for zero id")
	}
}

func TestIntQuery(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?patient_id=5&bad=x", nil), httptest.NewRecorder())
	if n, err := IntQuery(c, "patient_id"); err != nil || n != 5 {
		t.Errorf("expected 5, got %d (%v)", n, err)
	}
	if n, err := IntQuery(c, "missing"); err != nil || n != 0 {
		t.Errorf("expected 0 for absent param, got %d (%v)", n, err)
	}
	if _, err := IntQuery(c, "bad"); err == nil {
		t.Error("expected error for non-numeric query")
	}
}
