package feature

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidInput is matched by every CoercionError.
var ErrInvalidInput = errors.New("invalid input")

// CoercionError reports a simulation field that could not be parsed.
type CoercionError struct {
	Field string
	Value string
	Err   error
}

func (e *CoercionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("field %q is required", e.Field)
	}
	return fmt.Sprintf("field %q: cannot parse %q: %v", e.Field, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

func (e *CoercionError) Is(target error) bool { return target == ErrInvalidInput }

// Values is the read side of url.Values.
type Values interface {
	Get(key string) string
	Has(key string) bool
}

// continuous fields are parsed as floats, all others as integers.
var continuous = map[string]bool{
	"price":          true,
	"temperature":    true,
	"lag_1":          true,
	"lag_7":          true,
	"rolling_mean_3": true,
	"rolling_mean_7": true,
}

// ParseVector coerces text form values into a Vector. Every feature must be
// present.
func ParseVector(form Values) (Vector, error) {
	vals := make([]float64, Count)
	for i, name := range names {
		if !form.Has(name) {
			return Vector{}, &CoercionError{Field: name}
		}
		raw := strings.TrimSpace(form.Get(name))
		if continuous[name] {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return Vector{}, &CoercionError{Field: name, Value: raw, Err: err}
			}
			vals[i] = f
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Vector{}, &CoercionError{Field: name, Value: raw, Err: err}
		}
		vals[i] = float64(n)
	}
	return fromValues(vals), nil
}

// Continuous reports whether the named feature is parsed as a float.
func Continuous(name string) bool {
	return continuous[name]
}
