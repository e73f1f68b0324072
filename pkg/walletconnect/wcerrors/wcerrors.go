// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package wcerrors defines the stable error taxonomy the interactor
// and its collaborators raise.
package wcerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code identifies one of the taxonomy's error variants.
type Code string

const (
	CodeInvalidURI            Code = "InvalidURI"
	CodeBadJSONRPCRequest     Code = "BadJSONRPCRequest"
	CodeSessionInvalid        Code = "SessionInvalid"
	CodeSessionRequestTimeout Code = "SessionRequestTimeout"
	CodeHmacMismatch          Code = "HmacMismatch"
	CodeDecryptionFailed      Code = "DecryptionFailed"
	CodeSecurity              Code = "Security"
	CodeTooManyMessages       Code = "TooManyMessages"
	CodeTransport             Code = "Transport"
	CodeUnknown               Code = "Unknown"
)

// Error is the concrete type every taxonomy member is constructed as.
// Desc carries human-readable detail; Cause, when present, retains the
// wrapped error's stack trace via github.com/pkg/errors.
type Error struct {
	Code  Code
	Desc  string
	Cause error
}

func (e *Error) Error() string {
	if e.Desc != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Desc)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, wcerrors.New(CodeHmacMismatch, "")) style
// comparisons by code, ignoring Desc/Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New builds a taxonomy error with no wrapped cause.
func New(code Code, desc string) *Error {
	return &Error{Code: code, Desc: desc}
}

// Wrap attaches code to cause, preserving a stack trace via pkg/errors
// so logs retain the original failure site.
func Wrap(code Code, cause error, desc string) *Error {
	if cause == nil {
		return New(code, desc)
	}
	return &Error{Code: code, Desc: desc, Cause: errors.WithStack(cause)}
}

// Sentinels for errors.Is comparisons against a bare code.
var (
	ErrInvalidURI            = New(CodeInvalidURI, "")
	ErrBadJSONRPCRequest     = New(CodeBadJSONRPCRequest, "")
	ErrSessionInvalid        = New(CodeSessionInvalid, "")
	ErrSessionRequestTimeout = New(CodeSessionRequestTimeout, "")
	ErrHmacMismatch          = New(CodeHmacMismatch, "")
	ErrDecryptionFailed      = New(CodeDecryptionFailed, "")
)

// CodeOf extracts the Code from err if it (or something it wraps) is an
// *Error, and CodeUnknown otherwise.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
