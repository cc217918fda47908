package collectionutil

func Fill[T any](arr []T, val T) []T {
	for i := range arr {
		arr[i] = val
	}
	return arr
}

func Equal[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
