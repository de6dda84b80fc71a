package domain

// MustOk unwraps a Result, panicking with the contained error if it is Err.
// For use in tests only.
func MustOk[T any](r Result[T]) T {
	if r.IsErr() {
		panic("domain.MustOk: " + r.UnwrapErr().Error())
	}
	return r.Unwrap()
}

// MustErr unwraps a Result's error, panicking if the Result is Ok.
// For use in tests only.
func MustErr[T any](r Result[T]) error {
	if r.IsOk() {
		panic("domain.MustErr: Result was Ok")
	}
	return r.UnwrapErr()
}
