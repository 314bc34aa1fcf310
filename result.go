package schema

// Result is the Success/Failure algebra returned by schema validation.
// Exactly one variant is populated. Combinators never mutate the receiver:
// Map returns a new Result, the taps return the receiver unchanged, and
// OrElse substitutes a Failure with the fallback's output.
//
// The failure side is the error interface rather than a second type
// parameter; validation failures carry an ErrorList, which implements error.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Success wraps a value in the success variant.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure wraps an error in the failure variant.
func Failure[T any](err error) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) IsSuccess() bool { return r.ok }
func (r Result[T]) IsFailure() bool { return !r.ok }

// Value returns the success payload; the zero value on Failure.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure error; nil on Success.
func (r Result[T]) Err() error { return r.err }

// Errors returns the failure as an ErrorList. Ad hoc errors are wrapped as
// a single custom_validation entry; Success yields nil.
func (r Result[T]) Errors() ErrorList {
	if r.ok || r.err == nil {
		return nil
	}
	if el, isList := r.err.(ErrorList); isList {
		return el
	}
	if se, isSchema := r.err.(*SchemaError); isSchema {
		return ErrorList{se.FieldError()}
	}
	return ErrorList{NewFieldError("", r.err.Error(), CodeCustomValidation)}
}

// Unwrap returns the payload and a success flag in comma-ok style.
func (r Result[T]) Unwrap() (T, bool) {
	return r.value, r.ok
}

// Map transforms the success payload. A Failure propagates untouched.
func (r Result[T]) Map(fn func(T) T) Result[T] {
	if !r.ok {
		return r
	}
	return Success(fn(r.value))
}

// OnSuccess is a side-effecting tap run only on Success. Returns the
// receiver unchanged either way.
func (r Result[T]) OnSuccess(fn func(T)) Result[T] {
	if r.ok {
		fn(r.value)
	}
	return r
}

// OnFailure is a side-effecting tap run only on Failure. Returns the
// receiver unchanged either way.
func (r Result[T]) OnFailure(fn func(error)) Result[T] {
	if !r.ok {
		fn(r.err)
	}
	return r
}

// OrElse replaces a Failure with the result of the fallback computation.
// Success passes through without invoking the fallback.
func (r Result[T]) OrElse(fn func(error) Result[T]) Result[T] {
	if r.ok {
		return r
	}
	return fn(r.err)
}

// MapResult transforms the success payload to a different type. Declared at
// package level because Go methods cannot introduce type parameters.
func MapResult[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return Failure[U](r.err)
	}
	return Success(fn(r.value))
}
