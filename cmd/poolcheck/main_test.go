package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolcheckOffline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
	  {"code": "NM1", "id": 111},
	  {"code": "HD1", "id": 222},
	  {"code": "TB", "id": 999}
	]`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--pool", path, "--offline", "--resolve", "hd1", "--resolve", "gg"})
	require.NoError(t, rootCmd.Execute())

	got := out.String()
	assert.Contains(t, got, "HD1   222")
	assert.Contains(t, got, "HD NF")
	assert.Contains(t, got, "Freemod")
	assert.Contains(t, got, `"hd1" -> HD1`)
	assert.Contains(t, got, `"gg" -> no selection`)
}
