// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies an error for logs, metrics, and IsCode checks.
// The string values are stable; dashboards and log filters match on
// them.
type ErrorCode string

// Codes raised by the aggregation and report layers.
const (
	// ErrCodeMalformedQuantity marks a resource quantity string that
	// could not be parsed.
	ErrCodeMalformedQuantity ErrorCode = "MALFORMED_QUANTITY"
	// ErrCodeEmptyAggregation marks a fold over zero items with no seed.
	ErrCodeEmptyAggregation ErrorCode = "EMPTY_AGGREGATION"
	// ErrCodeDuplicateKey marks a scalar section entry inserted twice
	// under the same key.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
	// ErrCodeIdentityMismatch marks metric samples for different objects
	// combined into one series.
	ErrCodeIdentityMismatch ErrorCode = "IDENTITY_MISMATCH"
)

// Codes describing failures of the cluster collaborators the agent
// talks to.
const (
	// ErrCodeNotFound marks a resource that does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUnavailable marks a collaborator that answered but is not
	// serving, such as a kubelet behind the API server proxy.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
	// ErrCodeInvalidRequest marks malformed input or configuration.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeTimeout marks an operation that exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal marks a failure inside the agent itself.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError is an error with a stable classification code, a
// human-readable message, and an optional cause and key/value context.
// The code survives wrapping and is what IsCode matches on.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error renders as "[CODE] message: cause", without the cause part
// when there is none.
func (e *StructuredError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New returns a classified error with no cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// NewWithContext returns a classified error carrying key/value context
// for the log line that eventually reports it.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Context: context}
}

// Wrap attaches a code and message to an existing error. The cause
// stays reachable through Unwrap.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext is Wrap with key/value context attached.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// IsCode reports whether err or any error in its chain is a
// StructuredError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var structured *StructuredError
	if stderrors.As(err, &structured) {
		return structured.Code == code
	}
	return false
}
