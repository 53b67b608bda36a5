/*
 * DTCD SuperGraph
 *
 * Copyright 2022 The SuperGraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package payload

import "fmt"

/*
ErrorType is the type of a payload error.
*/
type ErrorType string

/*
Payload error types. Structural errors (a record is missing a required
field) are reported before any semantic check runs.
*/
const (
	ErrMissingKey    ErrorType = "Missing key"
	ErrNotUnique     ErrorType = "Not unique"
	ErrSelfReference ErrorType = "Self reference"
	ErrDoesNotExist  ErrorType = "Does not exist"
)

/*
Error is a payload validation related error. Value carries the offending
key or id where one exists.
*/
type Error struct {
	Type  ErrorType // Error type
	Value string    // Offending key or id
}

/*
Error returns a human-readable string representation of this error.
*/
func (pe *Error) Error() string {
	if pe.Value != "" {
		return fmt.Sprintf("PayloadError: %v (%v)", pe.Type, pe.Value)
	}
	return fmt.Sprintf("PayloadError: %v", pe.Type)
}

/*
NewError returns a new payload error with the given type and value.
*/
func NewError(t ErrorType, value string) *Error {
	return &Error{Type: t, Value: value}
}
