package builders

// BuildResult carries a built value together with the validation error
// found while building it. The value is the zero value when err is set.
type BuildResult[T any] struct {
	value T
	err   error
}

// Unwrap returns the value and the validation error.
//
//	params, err := builders.NewModelParameters().Temperature(0.2).Build().Unwrap()
func (r BuildResult[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Must returns the value and panics on a validation error. Meant for
// literals in tests and examples.
func (r BuildResult[T]) Must() T {
	if r.err != nil {
		panic(r.err)
	}
	return r.value
}

// Ok reports whether the build succeeded.
func (r BuildResult[T]) Ok() bool { return r.err == nil }

// Err returns the validation error.
func (r BuildResult[T]) Err() error { return r.err }

// Value returns the value, ignoring any error.
func (r BuildResult[T]) Value() T { return r.value }

// BuildResultError is a failed build.
func BuildResultError[T any](err error) BuildResult[T] {
	return BuildResult[T]{err: err}
}

// BuildResultOk is a successful build.
func BuildResultOk[T any](value T) BuildResult[T] {
	return BuildResult[T]{value: value}
}
