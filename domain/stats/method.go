package stats

import (
	"fmt"
	"strings"
)

// PValueMethod selects how pairwise significance is computed.
type PValueMethod string

const (
	// MethodFisher uses the Fisher z-transform normal approximation.
	MethodFisher PValueMethod = "fisher"
	// MethodPermutation uses an empirical permutation test.
	MethodPermutation PValueMethod = "permutation"
)

// ParsePValueMethod parses a significance method string; empty means Fisher.
func ParsePValueMethod(s string) (PValueMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fisher", "fisher_z", "fisher-z":
		return MethodFisher, nil
	case "permutation", "perm":
		return MethodPermutation, nil
	}
	return "", fmt.Errorf("unknown p-value method: %q", s)
}
