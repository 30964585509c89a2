package logtail

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plusultra.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestRead(t *testing.T) {
	var all []string
	for i := 1; i <= 10; i++ {
		all = append(all, fmt.Sprintf("line %d", i))
	}
	path := writeLog(t, all...)

	tests := []struct {
		name     string
		maxLines int
		want     []string
	}{
		{"zero reads everything", 0, all},
		{"negative reads everything", -1, all},
		{"last five", 5, all[5:]},
		{"last one", 1, all[9:]},
		{"exactly all", 10, all},
		{"more than the file", 20, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(path, tt.maxLines)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFilterLevel(t *testing.T) {
	lines := []string{
		`{"level":"debug","message":"api request"}`,
		`{"level":"info","message":"session restored"}`,
		`{"level":"warn","message":"poll failed"}`,
		`{"level":"error","message":"persist session"}`,
		"goroutine 1 [running]:",
	}

	got := FilterLevel(lines, zerolog.WarnLevel)
	assert.Equal(t, []string{lines[2], lines[3], lines[4]}, got)

	assert.Equal(t, lines, FilterLevel(lines, zerolog.TraceLevel))
}

func TestRender(t *testing.T) {
	lines := []string{
		`{"level":"warn","app":"plusultra","time":"2026-03-01T10:00:00Z","message":"library refresh failed"}`,
		"",
		"plain text line",
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, lines, false))
	out := buf.String()

	for _, want := range []string{"WRN", "library refresh failed", "app=plusultra", "plain text line"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, `"level"`)
}
