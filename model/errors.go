/*
 * DTCD SuperGraph
 *
 * Copyright 2022 The SuperGraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package model

import "fmt"

/*
ErrorType is the type of a model error.
*/
type ErrorType string

/*
Model error types. Persistence errors from the underlying store are not
wrapped - they are surfaced as-is.
*/
const (
	ErrNotFound         ErrorType = "Not found"
	ErrInvalidName      ErrorType = "Invalid name"
	ErrScopeViolation   ErrorType = "Scope violation"
	ErrInvalidOperation ErrorType = "Invalid operation"
	ErrCardinality      ErrorType = "Cardinality violation"
)

/*
Error is an entity model related error.
*/
type Error struct {
	Type   ErrorType // Error type
	Detail string    // Offending entity or operation
}

/*
Error returns a human-readable string representation of this error.
*/
func (me *Error) Error() string {
	if me.Detail != "" {
		return fmt.Sprintf("ModelError: %v (%v)", me.Type, me.Detail)
	}
	return fmt.Sprintf("ModelError: %v", me.Type)
}

/*
NewError returns a new model error with the given type and detail.
*/
func NewError(t ErrorType, detail string) *Error {
	return &Error{Type: t, Detail: detail}
}

/*
IsNotFound checks if the given error is a not found error.
*/
func IsNotFound(err error) bool {
	me, ok := err.(*Error)
	return ok && me.Type == ErrNotFound
}
