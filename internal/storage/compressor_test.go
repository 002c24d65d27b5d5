package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompression_Roundtrip(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	original := []byte(`{"date":"20240102","kind":"owned","games":[{"appid":10,"playtime_forever":130}]}`)
	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.NotEqual(t, original, compressed)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestZstdCompression_EmptyLedger(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	compressed, err := c.Compress([]byte{})
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, decompressed)
}

func TestZstdCompression_RepetitiveRows(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	original := bytes.Repeat([]byte(`{"appid":570,"name":"Dota 2","playtime_forever":1000},`), 20_000)
	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(original)/2)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestZstdCompression_DecompressInvalidData(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Decompress([]byte("not valid zstd data"))
	assert.Error(t, err)

	_, err = c.Decompress([]byte{0xff, 0xfe, 0xfd, 0xfc, 0x00, 0x01})
	assert.Error(t, err)
}
