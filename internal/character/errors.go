// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/taibuivan/rickmorty/internal/platform/apperr"
)

// # Failure Classification

// ErrorKind classifies a failed fetch.
type ErrorKind int

const (
	// KindClient means the upstream rejected the request (4xx).
	KindClient ErrorKind = iota + 1
	// KindServer means the upstream failed (any other non-2xx).
	KindServer
	// KindData covers transport, decoding and every other unexpected failure.
	KindData
)

// String returns the wire name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// Human-readable reasons surfaced to the rendering layer.
const (
	ReasonClient   = "The character service rejected the request"
	ReasonServer   = "The character service is unavailable"
	ReasonData     = "Could not load character data"
	ReasonNotFound = "Character not found"
)

// FetchError is returned by every [Source] implementation on failure.
type FetchError struct {
	Kind ErrorKind
	// Status is the upstream HTTP status, or 0 when no response was received.
	Status int
	// Op names the failed operation, e.g. "fetch_page".
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("character: %s: %s error", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *FetchError) Unwrap() error { return e.Cause }

// NotFound reports whether the upstream answered 404.
func (e *FetchError) NotFound() bool {
	return e.Kind == KindClient && e.Status == http.StatusNotFound
}

func clientError(op string, status int, cause error) *FetchError {
	return &FetchError{Kind: KindClient, Status: status, Op: op, Cause: cause}
}

func serverError(op string, status int, cause error) *FetchError {
	return &FetchError{Kind: KindServer, Status: status, Op: op, Cause: cause}
}

func dataError(op string, cause error) *FetchError {
	return &FetchError{Kind: KindData, Op: op, Cause: cause}
}

// KindOf extracts the [ErrorKind] from err's chain. Errors that are not
// a [*FetchError] are classified as [KindData].
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindData
}

// Reason converts err into the message shown by a Failed state.
func Reason(err error) string {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return err.Error()
	}

	switch fe.Kind {
	case KindClient:
		return ReasonClient
	case KindServer:
		return ReasonServer
	default:
		return ReasonData
	}
}

// ToAppError maps a fetch failure onto the HTTP error taxonomy.
func ToAppError(err error) error {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return err
	}

	switch {
	case fe.NotFound():
		return apperr.NotFound("Character")
	case fe.Kind == KindClient:
		return apperr.ValidationError(ReasonClient)
	case fe.Kind == KindServer:
		return apperr.BadGateway(ReasonServer, err)
	default:
		return apperr.BadGateway(ReasonData, err)
	}
}
