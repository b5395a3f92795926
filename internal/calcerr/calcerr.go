// Package calcerr provides the structured error types shared by the hull
// calculation packages.
//
// Every error raised by the core carries a Kind so callers can tell
// malformed geometry apart from bad analysis parameters or an unresolved
// search:
//   - Geometry: malformed or self-inconsistent profile / hull geometry
//   - Configuration: invalid analysis parameters
//   - Convergence: a metric that requires a search could not be resolved
//
// Errors may be annotated with the longitudinal station and the heel angle
// at which they were detected, and the annotations survive wrapping.
//
// # Usage
//
//	err := calcerr.Geometryf("profile has %d points, need at least 3", n)
//	err = calcerr.AtStation(err, 1.25)
//	if calcerr.Is(err, calcerr.Geometry) {
//	    // reject the hull file
//	}
package calcerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a calculation error.
type Kind string

const (
	Geometry      Kind = "geometry"
	Configuration Kind = "configuration"
	Convergence   Kind = "convergence"
)

// Error is a classified calculation error with optional location context.
type Error struct {
	Kind    Kind
	Message string
	Station *float64 // longitudinal station (m) where the error was detected
	Heel    *float64 // heel angle (degrees) being evaluated
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	sb.WriteString(" error")

	var where []string
	if e.Station != nil {
		where = append(where, fmt.Sprintf("station %.3f m", *e.Station))
	}
	if e.Heel != nil {
		where = append(where, fmt.Sprintf("heel %.1f°", *e.Heel))
	}
	if len(where) > 0 {
		sb.WriteString(" at ")
		sb.WriteString(strings.Join(where, ", "))
	}

	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Geometryf creates a Geometry error.
func Geometryf(format string, args ...any) *Error {
	return newf(Geometry, format, args...)
}

// Configurationf creates a Configuration error.
func Configurationf(format string, args ...any) *Error {
	return newf(Configuration, format, args...)
}

// Convergencef creates a Convergence error.
func Convergencef(format string, args ...any) *Error {
	return newf(Convergence, format, args...)
}

// Wrap creates a new Error of the given kind wrapping cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	e := newf(kind, format, args...)
	e.Cause = cause
	return e
}

// AtStation annotates err with the station it was detected at. The kind of
// an *Error in the chain is kept; any other error is wrapped as a Geometry
// error. A station that is
// already set is not overwritten.
func AtStation(err error, station float64) error {
	if err == nil {
		return nil
	}
	e := annotatable(err)
	if e.Station == nil {
		e.Station = &station
	}
	return e
}

// AtHeel annotates err with the heel angle being evaluated.
func AtHeel(err error, heel float64) error {
	if err == nil {
		return nil
	}
	e := annotatable(err)
	if e.Heel == nil {
		e.Heel = &heel
	}
	return e
}

// annotatable returns a fresh *Error to annotate. A bare *Error is copied.
// An *Error wrapped in other context is wrapped whole, taking over its kind
// and location, so the outer messages stay in the chain.
func annotatable(err error) *Error {
	if e, ok := err.(*Error); ok {
		cp := *e
		return &cp
	}
	var inner *Error
	if errors.As(err, &inner) {
		return &Error{Kind: inner.Kind, Station: inner.Station, Heel: inner.Heel, Cause: err}
	}
	return &Error{Kind: Geometry, Message: "calculation failed", Cause: err}
}

// Is reports whether err has the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf extracts the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StationOf returns the station annotation of err, if any.
func StationOf(err error) (float64, bool) {
	var e *Error
	if errors.As(err, &e) && e.Station != nil {
		return *e.Station, true
	}
	return 0, false
}

// HeelOf returns the heel annotation of err, if any.
func HeelOf(err error) (float64, bool) {
	var e *Error
	if errors.As(err, &e) && e.Heel != nil {
		return *e.Heel, true
	}
	return 0, false
}
