package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWritesSnapshots(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	err := run([]string{"-effect", "snow", "-cols", "16", "-rows", "8", "-frames", "4", "-every", "2", "-out", dir}, &out, io.Discard)
	require.NoError(t, err)

	lines := strings.Fields(out.String())
	require.Len(t, lines, 2)
	assert.Equal(t, filepath.Join(dir, "snow-0002.png"), lines[0])
	for _, p := range lines {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	assert.Error(t, run([]string{"-effect", "volcano"}, io.Discard, io.Discard))
	assert.Error(t, run([]string{"-backdrop", "navy-ish"}, io.Discard, io.Discard))
	assert.Error(t, run([]string{"-frames", "0", "-out", t.TempDir()}, io.Discard, io.Discard))
}
