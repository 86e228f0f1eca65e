package qrlink_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mdouchement/foundtag/internal/qrlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	assert.Equal(t, "http://x.lan/item/4f2e8c1a", qrlink.URL("http://x.lan", "4f2e8c1a"))
	assert.Equal(t, "http://x.lan/item/4f2e8c1a", qrlink.URL("http://x.lan/", "4f2e8c1a"))
}

func TestEncoderEncode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "qrcodes")
	encoder, err := qrlink.NewEncoder(dir)
	require.NoError(t, err)

	name, err := encoder.Encode("http://x.lan", "4f2e8c1a")
	require.NoError(t, err)
	assert.Equal(t, "4f2e8c1a.png", name)

	payload, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), payload[:8])
}

func TestEncoderExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "qrcodes")
	encoder, err := qrlink.NewEncoder(dir)
	require.NoError(t, err)

	assert.False(t, encoder.Exists("4f2e8c1a"))

	_, err = encoder.Encode("http://x.lan", "4f2e8c1a")
	require.NoError(t, err)
	assert.True(t, encoder.Exists("4f2e8c1a"))
}

func TestEncoderEncodeOverwrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "qrcodes")
	encoder, err := qrlink.NewEncoder(dir)
	require.NoError(t, err)

	_, err = encoder.Encode("http://x.lan", "4f2e8c1a")
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "4f2e8c1a.png"))
	require.NoError(t, err)

	// Regeneration against another base URL replaces the asset.
	_, err = encoder.Encode("http://y.lan", "4f2e8c1a")
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "4f2e8c1a.png"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
