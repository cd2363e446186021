// Package units manages the concentration and dispensing unit codes that
// medications are measured in.
package units

// Kind selects one of the two unit tables.
type Kind string

const (
	Concentration Kind = "concentration"
	Dispensing    Kind = "dispensing"
)

// Unit is a unit code; the code is the whole record.
type Unit struct {
	Code string `json:"code" validate:"required,max=50"`
}
