package utils

// FilterArray returns the elements of arr for which keep reports true, in
// their original order. The result is never nil.
func FilterArray[T any](arr []T, keep func(T) bool) []T {
	result := make([]T, 0, len(arr))
	for _, v := range arr {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}
