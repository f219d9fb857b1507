package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locales.txt")
	require.NoError(t, os.WriteFile(path, []byte("\xef\xbb\xbf# locales\nProvidencia\n\n  Las Condes  \n"), 0o600))

	names, err := readNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Providencia", "Las Condes"}, names)
}

func TestReadNames_Windows1252(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locales.txt")
	require.NoError(t, os.WriteFile(path, []byte("\xd1u\xf1oa\r\n"), 0o600))

	names, err := readNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ñuñoa"}, names)
}
