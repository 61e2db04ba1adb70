package dataset

import (
	"fmt"
	"strings"
)

// MakeUniqueName returns name if it is unused, otherwise appends " (2)",
// " (3)", ... until the result is free. Blank names become "Dataset".
func MakeUniqueName(name string, existing map[string]bool) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = "Dataset"
	}
	if !existing[base] {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", base, i)
		if !existing[candidate] {
			return candidate
		}
	}
}
