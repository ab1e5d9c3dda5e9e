package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDashboard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.png")

	err := RenderDashboard(testRecords(), 10, path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestRenderDashboardNoRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.png")

	err := RenderDashboard(nil, 10, path)
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
