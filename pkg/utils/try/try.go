// Package try shortens (value, error) handling in tests.
//
// Usage:
//
//	conf := try.To(configs.Unmarshal(b)).OrFatal(t)
package try

// Fataler is something having Fatal, like *testing.T.
type Fataler interface {
	Fatal(...any)
}

// Result is a pair of a value and an error, returned by a call.
type Result[T any] struct {
	value T
	err   error
}

// To captures the return values of a call.
func To[T any](value T, err error) Result[T] {
	return Result[T]{value: value, err: err}
}

// OrFatal returns the value, or calls ftl.Fatal(err) when the call failed.
//
// When ftl has Helper() (like *testing.T), it is called before Fatal.
func (r Result[T]) OrFatal(ftl Fataler) T {
	if r.err == nil {
		return r.value
	}
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(r.err)
	return *new(T)
}
