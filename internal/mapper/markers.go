package mapper

import "strings"

// CompletionMarkers are the phrases that mark a thread's unit of work as done.
// Matching is case-insensitive and substring based, so "Killed a prey:" and
// "killed a prey" both match the first entry.
var CompletionMarkers = []string{
	"killed a prey",
}

// ContainsCompletionMarker reports whether text carries any completion marker.
func ContainsCompletionMarker(text string) bool {
	for _, marker := range CompletionMarkers {
		if ContainsFold(text, marker) {
			return true
		}
	}
	return false
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
