// Package id generates identifiers for runs.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// RunPrefix starts every run identifier.
const RunPrefix = "run-"

// GenerateShort returns the first 8 hex characters of a random UUID.
func GenerateShort() string {
	return uuid.New().String()[:8]
}

// RunID generates a run identifier such as "run-1b4e28ba".
func RunID() string {
	return RunPrefix + GenerateShort()
}

// IsRunID reports whether s looks like an identifier made by RunID.
func IsRunID(s string) bool {
	if !strings.HasPrefix(s, RunPrefix) || len(s) != len(RunPrefix)+8 {
		return false
	}
	for _, r := range s[len(RunPrefix):] {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
