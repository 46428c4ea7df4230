package naming_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/naming"
)

const unsafeChars = `/\?%*:|"<>`

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Quantum Sensing", "Quantum Sensing"},
		{"a/b\\c", "a-b-c"},
		{`what? 100% *now*: a|b "q" <x>`, `what- 100- -now-- a-b -q- -x-`},
		{"line\nbreak\ttab", "line-break-tab"},
		{"", ""},
		{"Ünïcödé stays", "Ünïcödé stays"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, naming.Sanitize(tt.input), "input=%q", tt.input)
	}
}

func TestSanitize_NeverLeavesUnsafeCharacters(t *testing.T) {
	inputs := []string{
		unsafeChars,
		strings.Repeat(unsafeChars, 5),
		"C:\\Users\\me\\doc?.md",
		"../../etc/passwd",
		`"quoted" <tag> | pipe`,
		"mixed 日本語 / * ?",
	}

	for _, input := range inputs {
		got := naming.Sanitize(input)
		assert.False(t, strings.ContainsAny(got, unsafeChars), "input=%q got=%q", input, got)
	}
}

func TestDocumentBase(t *testing.T) {
	date := time.Date(2026, 3, 7, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "Quantum Sensing-by-A. Lee-2026-03-07", naming.DocumentBase("Quantum Sensing", "A. Lee", date))
	assert.Equal(t, "AI- risks-by-J-K-2026-03-07", naming.DocumentBase("AI: risks", "J/K", date))
}

func TestImageBase(t *testing.T) {
	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "a cat-2026-01-02", naming.ImageBase(" a cat ", date))

	long := naming.ImageBase(strings.Repeat("x", 100), date)
	assert.Equal(t, strings.Repeat("x", 60)+"-2026-01-02", long)
}

func TestUniqueBase(t *testing.T) {
	dir := t.TempDir()

	first, err := naming.UniqueBase(dir, "report", ".md")
	require.NoError(t, err)
	assert.Equal(t, "report", first)

	require.NoError(t, os.WriteFile(filepath.Join(dir, first+".md"), []byte("x"), 0o600))

	second, err := naming.UniqueBase(dir, "report", ".md")
	require.NoError(t, err)
	assert.Equal(t, "report-2", second)

	require.NoError(t, os.WriteFile(filepath.Join(dir, second+".md"), []byte("x"), 0o600))

	third, err := naming.UniqueBase(dir, "report", ".md")
	require.NoError(t, err)
	assert.Equal(t, "report-3", third)
}

func TestUniqueBase_SharesSuffixAcrossSiblings(t *testing.T) {
	dir := t.TempDir()

	// only the pdf of the first name exists
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0o600))

	base, err := naming.UniqueBase(dir, "report", ".md", ".pdf")
	require.NoError(t, err)
	assert.Equal(t, "report-2", base)

	base, err = naming.UniqueBase(dir, "report", ".md")
	require.NoError(t, err)
	assert.Equal(t, "report", base)
}
