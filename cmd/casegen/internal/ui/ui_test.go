package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := Output
	Output = &buf
	t.Cleanup(func() { Output = original })
	return &buf
}

func TestPrintTableAlignsWideRunes(t *testing.T) {
	buf := capture(t)
	PrintTable([]string{"CP", "usuario"}, [][]string{
		{"CP001", "vacío"},
		{"CP002", "日本"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "CP001  vacío    ", lines[2])
	assert.Equal(t, "CP002  日本     ", lines[3])
}

func TestPrintTableEmpty(t *testing.T) {
	buf := capture(t)
	PrintTable([]string{"a"}, nil)
	assert.Empty(t, buf.String())
}

func TestRenderGrid(t *testing.T) {
	out := RenderGrid([]string{"Variable", "CP001"}, [][]string{{"A", "*"}}, 1)
	assert.Contains(t, out, "Variable")
	assert.Contains(t, out, "CP001")
	assert.Contains(t, out, "*")
}

func TestConfirm(t *testing.T) {
	capture(t)
	original := Input
	t.Cleanup(func() { Input = original })

	Input = strings.NewReader("yes\n")
	assert.True(t, Confirm("delete?"))

	Input = strings.NewReader("n\n")
	assert.False(t, Confirm("delete?"))

	Input = strings.NewReader("")
	assert.False(t, Confirm("delete?"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m 5s", FormatDuration(125*time.Second))
}
