package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDocument_Empty(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	err = w.WriteDocument("dev-1", geojson.NewFeatureCollection())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "dev-1.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(data))
}

func TestWriteDocument_Overwrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	require.NoError(t, w.WriteDocument("dev-1", geojson.NewFeatureCollection()))
	require.NoError(t, w.WriteDocument("dev-1", geojson.NewFeatureCollection()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "rewrite must not leave temp files behind")
}

func TestPath_SanitizesDeviceID(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	p := w.Path("../../etc/passwd")
	assert.NotContains(t, filepath.ToSlash(p), "../")
}
