// Copyright (c) 2017,2019, AT&T Intellectual Property. All rights reserved
//
// Copyright (c) 2016-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"fmt"

	"github.com/danos/mgmterror"
	"github.com/danos/utils/pathutil"
)

// ErrorKind identifies one member of the error taxonomy. It lets
// callers (and tests) type-switch on the semantic failure rather than
// the concrete mgmterror wire representation.
type ErrorKind int

const (
	ErrInternal ErrorKind = iota
	ErrPatternRegex
	ErrOutOfRange
	ErrEnumInvalid
	ErrNoSchemaNode
	ErrNotReadable
	ErrNotWritable
	ErrKeyMissing
	ErrInvalidQuery
	ErrBadAttribute
	ErrUnknownAttribute
	ErrOperationNotSupported
	ErrMalformedMessage
	ErrInvalidValue
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInternal:
		return "internal"
	case ErrPatternRegex:
		return "pattern-regex"
	case ErrOutOfRange:
		return "out-of-range"
	case ErrEnumInvalid:
		return "enum-invalid"
	case ErrNoSchemaNode:
		return "no-schema-node"
	case ErrNotReadable:
		return "not-readable"
	case ErrNotWritable:
		return "not-writable"
	case ErrKeyMissing:
		return "key-missing"
	case ErrInvalidQuery:
		return "invalid-query"
	case ErrBadAttribute:
		return "bad-attribute"
	case ErrUnknownAttribute:
		return "unknown-attribute"
	case ErrOperationNotSupported:
		return "operation-not-supported"
	case ErrMalformedMessage:
		return "malformed-message"
	case ErrInvalidValue:
		return "invalid-value"
	default:
		return "unknown"
	}
}

// SchemaError wraps an mgmterror value with the taxonomy kind that
// produced it, so callers can branch on Kind() without inspecting the
// underlying mgmterror type.
type SchemaError struct {
	Kind ErrorKind
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func wrap(kind ErrorKind, err error) error {
	return &SchemaError{Kind: kind, Err: err}
}

func NewInternalError(path []string, msg string) error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = pathutil.Pathstr(path)
	e.Message = msg
	return wrap(ErrInternal, e)
}

func NewPatternRegexError(path []string, pattern string, cause error) error {
	e := mgmterror.NewInvalidValueApplicationError()
	e.Path = pathutil.Pathstr(path)
	e.Message = fmt.Sprintf("pattern %q: %v", pattern, cause)
	e.Info = append(e.Info, *mgmterror.NewMgmtErrorInfoTag(
		mgmterror.VyattaNamespace, "pattern", pattern))
	return wrap(ErrPatternRegex, e)
}

func NewOutOfRangeError(path []string, value, rangeSpec string) error {
	e := mgmterror.NewInvalidValueApplicationError()
	e.Path = pathutil.Pathstr(path)
	e.Message = fmt.Sprintf("value %q out of range %q", value, rangeSpec)
	return wrap(ErrOutOfRange, e)
}

func NewEnumInvalidError(path []string, value string) error {
	e := mgmterror.NewUnknownElementApplicationError(value)
	e.Path = pathutil.Pathstr(path)
	e.Message = "Value does not match enumeration"
	return wrap(ErrEnumInvalid, e)
}

func NewNoSchemaNodeError(path []string) error {
	e := mgmterror.NewUnknownElementApplicationError(lastOf(path))
	if len(path) > 1 {
		e.Path = pathutil.Pathstr(path[:len(path)-1])
	}
	e.Message = "Path is invalid"
	return wrap(ErrNoSchemaNode, e)
}

func NewNotReadableError(path []string) error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = pathutil.Pathstr(path)
	e.Message = "Node is not readable"
	return wrap(ErrNotReadable, e)
}

func NewNotWritableError(path []string) error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = pathutil.Pathstr(path)
	e.Message = "Node is not writable"
	return wrap(ErrNotWritable, e)
}

func NewKeyMissingError(path []string) error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = pathutil.Pathstr(path)
	e.Message = "List entry is missing key"
	return wrap(ErrKeyMissing, e)
}

func NewInvalidQueryError(query, reason string) error {
	e := mgmterror.NewInvalidValueApplicationError()
	e.Message = fmt.Sprintf("invalid query %q: %s", query, reason)
	return wrap(ErrInvalidQuery, e)
}

func NewBadAttributeError(path []string, attr string) error {
	e := mgmterror.NewUnknownElementApplicationError(attr)
	e.Path = pathutil.Pathstr(path)
	e.Message = "Bad attribute value"
	return wrap(ErrBadAttribute, e)
}

func NewUnknownAttributeError(path []string, attr string) error {
	e := mgmterror.NewUnknownElementApplicationError(attr)
	e.Path = pathutil.Pathstr(path)
	e.Message = "Unknown attribute"
	return wrap(ErrUnknownAttribute, e)
}

func NewOperationNotSupportedError(path []string, op string) error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = pathutil.Pathstr(path)
	e.Message = fmt.Sprintf("operation %q not supported here", op)
	return wrap(ErrOperationNotSupported, e)
}

func NewMalformedMessageError(path []string, msg string) error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = pathutil.Pathstr(path)
	e.Message = msg
	return wrap(ErrMalformedMessage, e)
}

func NewInvalidValueError(path []string, value string) error {
	e := mgmterror.NewInvalidValueApplicationError()
	e.Path = pathutil.Pathstr(path)
	e.Message = fmt.Sprintf("invalid value %q", value)
	return wrap(ErrInvalidValue, e)
}

func lastOf(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

// KindOf unwraps err looking for a *SchemaError and returns its kind,
// or false if err was not produced by this package.
func KindOf(err error) (ErrorKind, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
