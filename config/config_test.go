package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/sheet_analyzer/stats"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("DB_DSN", "default:@tcp(127.0.0.1:9004)/default")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("UPLOAD_DIR", "/tmp/up")

	c := FromEnv()
	assert.Equal(t, "default:@tcp(127.0.0.1:9004)/default", c.DbDsn)
	assert.Equal(t, ":8005", c.HTTPAddr)
	assert.Equal(t, "/tmp/up", c.UploadDir)
}

func TestParseConventions(t *testing.T) {
	conv, err := ParseConventions([]byte(`
groupers:
  Score: percentage
  Team: categorical
date_columns: [Joined]
summary_threshold: 3
`))
	require.NoError(t, err)
	assert.Equal(t, stats.GroupPercentage, conv.Groupers["Score"])
	assert.Equal(t, []string{"Joined"}, conv.DateColumns)
	assert.Equal(t, 3, conv.SummaryThreshold)
	assert.Equal(t, 50, conv.MaxGroupValues)
	assert.Equal(t, stats.DefaultPolygonField, conv.PolygonField)

	_, err = ParseConventions([]byte("groupers:\n  Score: pie\n"))
	assert.Error(t, err)
}

func TestLoadConventions(t *testing.T) {
	conv, err := LoadConventions("")
	require.NoError(t, err)
	assert.Equal(t, stats.DefaultConventions(), conv)

	path := filepath.Join(t.TempDir(), "conventions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("date_columns: [DOB]\n"), 0644))
	conv, err = LoadConventions(path)
	require.NoError(t, err)
	assert.True(t, conv.IsDateColumn("DOB"))
	assert.False(t, conv.IsDateColumn("Birthday"))

	_, err = LoadConventions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
