// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package params

import (
	"github.com/juju/errors"
)

// Error is the type of error returned by any call to the controller API.
type Error struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Info    map[string]interface{} `json:"info,omitempty"`
}

func (e Error) Error() string {
	return e.Message
}

// ErrorCode returns the error code associated with the error.
func (e Error) ErrorCode() string {
	return e.Code
}

// The Code constants hold error codes for well known errors.
const (
	CodeNotFound          = "not found"
	CodeUnauthorized      = "unauthorized access"
	CodeNotImplemented    = "not implemented"
	CodeBadRequest        = "bad request"
	CodeDischargeRequired = "macaroon discharge required"
)

// ErrCode returns the error code associated with the given error, or
// the empty string if there is none.
func ErrCode(err error) string {
	type errorCoder interface {
		ErrorCode() string
	}
	switch err := errors.Cause(err).(type) {
	case errorCoder:
		return err.ErrorCode()
	default:
		return ""
	}
}

// TranslateWellKnownError translates an API error into the matching
// juju/errors type so callers can use errors.Is.
func TranslateWellKnownError(err error) error {
	code := ErrCode(err)
	switch code {
	case CodeNotFound:
		return errors.NewNotFound(err, "")
	case CodeUnauthorized:
		return errors.NewUnauthorized(err, "")
	case CodeNotImplemented:
		return errors.NewNotImplemented(err, "")
	case CodeBadRequest:
		return errors.NewBadRequest(err, "")
	}
	return err
}
