package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cydwatch/internal/core/stopwatch"
	"cydwatch/internal/core/ticks"
	"cydwatch/internal/web"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "cydwatch dev (unknown)\n", out.String())
}

func TestStatsCommand(t *testing.T) {
	clock := ticks.NewManual(0)
	watch := stopwatch.New(clock.Now)
	watch.Start()
	clock.Advance(61500)
	watch.Stop()

	server := web.New(web.Options{Stopwatch: watch})
	defer server.Close()
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"stats", "--addr", httpServer.URL})
	require.NoError(t, cmd.Execute())

	var stats stopwatch.Stats
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, uint64(61500), stats.TotalMS)
	assert.Equal(t, "00:01:01.500", stats.Formatted)
}

func TestFetchStatsReportsHTTPErrors(t *testing.T) {
	httpServer := httptest.NewServer(http.NotFoundHandler())
	defer httpServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := fetchStats(ctx, httpServer.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOpenSessionAppliesOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/cydwatch.yaml", []byte("log_level: warning\nweb_monitor_enabled: true\n"), 0o644))

	cmd := newRunCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--web=false"}))
	current, err := openSession(fs, runOptions{
		mode:       modeDevice,
		configPath: "/etc/cydwatch.yaml",
		logLevel:   "debug",
		webAddr:    ":9999",
	}, cmd.Flags())
	require.NoError(t, err)

	assert.Equal(t, "debug", current.config.LogLevel)
	assert.False(t, current.config.Web.Enabled)
	assert.Equal(t, ":9999", current.config.Web.Addr)
	assert.Nil(t, current.webServer())
	assert.NotNil(t, current.watch)
}

func TestOpenSessionKeepsFileValuesWithoutFlags(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte("web_monitor_enabled: true\n"), 0o644))

	current, err := openSession(fs, runOptions{mode: modeDesktop, configPath: "/cfg.yaml"}, newRunCmd().Flags())
	require.NoError(t, err)
	assert.True(t, current.config.Web.Enabled)
	assert.NotNil(t, current.webServer())
}

func TestOpenSessionRejectsBadLogLevel(t *testing.T) {
	_, err := openSession(afero.NewMemMapFs(), runOptions{configPath: "/missing.yaml", logLevel: "loud"}, nil)
	assert.Error(t, err)
}

func TestSaveConfigPersists(t *testing.T) {
	fs := afero.NewMemMapFs()
	current, err := openSession(fs, runOptions{configPath: "/cfg/config.yaml"}, nil)
	require.NoError(t, err)

	updated := current.config
	updated.Display.ShowMilliseconds = false
	require.NoError(t, current.saveConfig(updated))

	reloaded, err := openSession(fs, runOptions{configPath: "/cfg/config.yaml"}, nil)
	require.NoError(t, err)
	assert.False(t, reloaded.config.Display.ShowMilliseconds)
}
