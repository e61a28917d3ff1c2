package lox

// MapPtr применяет iteratee к значению по указателю, nil остаётся nil.
func MapPtr[T, R any](ptr *T, iteratee func(item T) R) *R {
	if ptr == nil {
		return nil
	}

	result := iteratee(*ptr)

	return &result
}
