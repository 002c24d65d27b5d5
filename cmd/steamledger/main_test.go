package main

import (
	"steamledger/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Defaults(t *testing.T) {
	flags, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", flags.ConfigPath)
	assert.False(t, flags.DebugMode)
	assert.Equal(t, structures.CommandRun, flags.Command)
}

func TestParseFlags_CommandAndShorthands(t *testing.T) {
	flags, err := parseFlags([]string{"-c", "/etc/steamledger.yaml", "-d", "upload-all"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/steamledger.yaml", flags.ConfigPath)
	assert.True(t, flags.DebugMode)
	assert.Equal(t, structures.CommandUploadAll, flags.Command)

	flags, err = parseFlags([]string{"serve", "--config=alt.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "alt.yaml", flags.ConfigPath)
	assert.Equal(t, structures.CommandServe, flags.Command)
}

func TestParseFlags_Errors(t *testing.T) {
	_, err := parseFlags([]string{"sync"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"run", "serve"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"--nope"})
	assert.Error(t, err)
}
