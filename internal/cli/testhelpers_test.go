package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const sampleReadings = `[
  {"id": 1, "value": 310, "timestamp": "2024-05-01T10:00:00Z"},
  {"id": 2, "value": 150, "timestamp": "2024-05-01T10:00:15Z"}
]`

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// sensorServer serves body with the given status on every request.
func sensorServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// isolateConfig runs the test from an empty git repo with an empty HOME so
// no real config files are picked up.
func isolateConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	t.Chdir(dir)

	oldCfg := cfgFile
	t.Cleanup(func() { cfgFile = oldCfg })
	cfgFile = ""
	return dir
}

// dashboardCmd returns a standalone command carrying the dashboard flags,
// parsed from args.
func dashboardCmd(t *testing.T, flags *DashboardFlags, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	AddDashboardFlags(cmd, flags)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}
