package utils

// Ptr returns a pointer to v. Handy for literals in tests and updates.
func Ptr[T any](v T) *T {
	return &v
}
