package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := RunID()
		assert.True(t, IsRunID(id), id)
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}

func TestIsRunID(t *testing.T) {
	assert.True(t, IsRunID("run-0123abcd"))
	assert.False(t, IsRunID("run-0123abc"))
	assert.False(t, IsRunID("job-0123abcd"))
	assert.False(t, IsRunID("run-0123ABCD"))
}

func TestGenerateShort(t *testing.T) {
	assert.Len(t, GenerateShort(), 8)
}
