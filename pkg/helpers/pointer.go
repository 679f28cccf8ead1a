package helpers

// Ptr returns &val. Handy for optional request fields in tests and literals.
func Ptr[T any](val T) *T {
	return &val
}

// Value dereferences val, yielding the zero value for nil.
func Value[T any](val *T) T {
	return ValueOr(val, *new(T))
}

// ValueOr dereferences val, yielding fallback for nil.
func ValueOr[T any](val *T, fallback T) T {
	if val == nil {
		return fallback
	}
	return *val
}
