package wordlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_TrimsLowercasesAndDropsEmpties(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Sun \nMOON\n\n ocean\n"), 0o644))

	prompts := Load(path)
	assert.Equal(t, []string{"sun", "moon", "ocean"}, prompts)
}
