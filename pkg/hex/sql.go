package hex

import (
	"database/sql/driver"
	"fmt"
)

// Value implements driver.Valuer. Coordinates are stored as canonical text
// so that equal coordinates compare equal as strings.
func (a Axial) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner for text columns holding either literal form.
func (a *Axial) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	case nil:
		return &FormatError{Input: "NULL", Reason: "coordinate is NULL"}
	default:
		return &FormatError{Input: fmt.Sprint(src), Reason: fmt.Sprintf("cannot scan %T", src)}
	}
}
