// this package provide "mock" implementation of database for testing.
//
// Each mock has `Impl` to be set by tests, and `Calls` recording arguments.
// Calling a method whose Impl is not set causes an error.
package mocks

import "errors"

type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

var ErrNotImplemented = errors.New("[MOCK] not implemented")
