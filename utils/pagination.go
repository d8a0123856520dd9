package utils

// ResolveOffset converts a 1-based page index into a skip value.
// deletedDocCount is how many documents the caller knows have disappeared
// from the list since its last count fetch; subtracting it keeps the window
// from skipping or duplicating rows while the collection shrinks
// mid-session. The result is clamped at zero.
func ResolveOffset(page, pageSize, deletedDocCount int64) int64 {
	if page < 1 {
		page = 1
	}
	skip := (page-1)*pageSize - deletedDocCount
	if skip < 0 {
		return 0
	}
	return skip
}
