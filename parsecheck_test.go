package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shar-tools/p3d_browser/p3d"
	"github.com/shar-tools/p3d_browser/vfs"
)

func writeChunk(t *testing.T, dir, name string, words ...uint32) {
	var data []byte
	for _, w := range words {
		data = append(data, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func TestParseCheckSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, "a_empty_root.p3d", p3d.TAG_ROOT, 12, 12)
	writeChunk(t, dir, "b_truncated.p3d", p3d.TAG_ROOT, 12, 40)
	writeChunk(t, dir, "c_sizes.p3d", p3d.TAG_ROOT, 20, 16)
	writeChunk(t, dir, "d_unknown_root.p3d", 0x1234, 12, 24, 0x5678, 12, 12)

	result := parseCheck(vfs.NewDirectoryDriver(dir), nil)
	assert.Equal(t, 2, result.Decoded)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, map[string]int{
		"truncated input":    1,
		"size inconsistency": 1,
	}, result.ByKind)
}
