package util

// Outcome is the result of an operation that never fails outright: it either
// produced a value (Ok) or degraded to a caller-visible default (Fallback).
// Err records why a fallback was taken and is nil for Ok outcomes.
type Outcome[T any] struct {
	Value    T
	Fallback bool
	Err      error
}

// Ok wraps a successfully computed value.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Fallback wraps a default value returned because of err.
func Fallback[T any](v T, err error) Outcome[T] {
	return Outcome[T]{Value: v, Fallback: true, Err: err}
}

// IsOk reports whether the value was computed rather than defaulted.
func (o Outcome[T]) IsOk() bool {
	return !o.Fallback
}

// Get returns the carried value regardless of how it was produced.
func (o Outcome[T]) Get() T {
	return o.Value
}
