// Package session carries small pieces of per-browser state between requests
// in cookies: the currently selected parent record of a filtered list, and a
// one-shot flash message.
package session

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Selection keys shared by the handlers that filter on them.
const (
	MedicationTypeKey   = "MedicationTypeId"
	PatientDiagnosisKey = "PatientDiagnosisId"
)

const flashCookie = "message"

// Options controls the cookie attributes written by this package.
type Options struct {
	Secure bool
	MaxAge time.Duration
}

var opts = Options{MaxAge: 24 * time.Hour}

// Configure replaces the cookie options; called once at startup.
func Configure(o Options) {
	if o.MaxAge <= 0 {
		o.MaxAge = 24 * time.Hour
	}
	opts = o
}

func positiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Current returns the selection for key, preferring the query string over the
// cookie. The query value is returned even when the cookie disagrees.
func Current(c echo.Context, key string) (int, bool) {
	if id, ok := positiveInt(c.QueryParam(key)); ok {
		return id, true
	}
	if ck, err := c.Cookie(key); err == nil {
		if id, ok := positiveInt(ck.Value); ok {
			return id, true
		}
	}
	return 0, false
}

// Remember stores id as the selection for key.
func Remember(c echo.Context, key string, id int) {
	c.SetCookie(newCookie(key, strconv.Itoa(id), int(opts.MaxAge.Seconds())))
}

// Select resolves the selection used by a list endpoint: an explicit id wins
// and is remembered, then a query value (also remembered), then the cookie.
func Select(c echo.Context, key string, explicit int) (int, bool) {
	if explicit > 0 {
		Remember(c, key, explicit)
		return explicit, true
	}
	if id, ok := positiveInt(c.QueryParam(key)); ok {
		Remember(c, key, id)
		return id, true
	}
	return Current(c, key)
}

// SetFlash queues msg for the next response that calls TakeFlash.
func SetFlash(c echo.Context, msg string) {
	c.SetCookie(newCookie(flashCookie, url.QueryEscape(msg), int(opts.MaxAge.Seconds())))
}

// TakeFlash returns the pending flash message and expires it.
func TakeFlash(c echo.Context) string {
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return ""
	}
	c.SetCookie(newCookie(flashCookie, "", -1))
	msg, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return ""
	}
	return msg
}

// RedirectWithFlash sets msg and answers 303 to location.
func RedirectWithFlash(c echo.Context, location, msg string) error {
	SetFlash(c, msg)
	return c.Redirect(http.StatusSeeOther, location)
}

func newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
