package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrUnknownRoute   = errors.New("unknown route")
	ErrSourceRead     = errors.New("track source unreadable")
	ErrMalformedTrack = errors.New("malformed track")
	ErrEmptyTrack     = errors.New("track has no points")
)

// UnknownRouteError is returned for ids missing from the registry.
// Available always holds the complete set of registered ids.
type UnknownRouteError struct {
	RouteID   string
	Available []string
}

func (e *UnknownRouteError) Error() string {
	return fmt.Sprintf("unknown route %q (available: %s)", e.RouteID, strings.Join(e.Available, ", "))
}

func (e *UnknownRouteError) Is(target error) bool { return target == ErrUnknownRoute }

// SourceReadError wraps a failure to read a route's GPX file.
type SourceReadError struct {
	RouteID string
	Source  string
	Err     error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("route %s: read %s: %v", e.RouteID, e.Source, e.Err)
}

func (e *SourceReadError) Is(target error) bool { return target == ErrSourceRead }
func (e *SourceReadError) Unwrap() error        { return e.Err }

// MalformedTrackError means the file was read but is not a usable track.
type MalformedTrackError struct {
	RouteID string
	Err     error
}

func (e *MalformedTrackError) Error() string {
	return fmt.Sprintf("route %s: malformed track: %v", e.RouteID, e.Err)
}

func (e *MalformedTrackError) Is(target error) bool { return target == ErrMalformedTrack }
func (e *MalformedTrackError) Unwrap() error        { return e.Err }

// EmptyTrackError means the track parsed but contains zero points.
type EmptyTrackError struct {
	RouteID string
}

func (e *EmptyTrackError) Error() string {
	return fmt.Sprintf("route %s: track has no points", e.RouteID)
}

func (e *EmptyTrackError) Is(target error) bool { return target == ErrEmptyTrack }

// ErrorKind returns a short label for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownRoute):
		return "unknown_route"
	case errors.Is(err, ErrSourceRead):
		return "source_read"
	case errors.Is(err, ErrMalformedTrack):
		return "malformed"
	case errors.Is(err, ErrEmptyTrack):
		return "empty"
	default:
		return "other"
	}
}
