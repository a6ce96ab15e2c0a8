package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/ragadmin-go/internal/config"
	"github.com/eshaffer321/ragadmin-go/pkg/admin"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/analytics/summary", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"total_messages":10}}`))
	})
	mux.HandleFunc("/chats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chats":[{"_id":"c1"},{"_id":"c2"}],"total":2,"page":1,"limit":5,"totalPages":1}`))
	})
	mux.HandleFunc("/tokens/settings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"settings store offline"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRunner_Run(t *testing.T) {
	server := newBackend(t)

	client, err := admin.NewClient(&admin.ClientOptions{BaseURL: server.URL, Token: "tok1"})
	require.NoError(t, err)

	var out bytes.Buffer
	runner := NewRunner(&SmokeConfig{
		ChecksToRun:   []string{"summary", "chats", "token_settings", "nope"},
		FetchSettings: &config.Config{RetryCount: 1, RetryDelay: time.Millisecond},
	}, client, &out)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalChecks)
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 2, report.Failed)
	assert.InDelta(t, 50, report.SuccessRate, 0.001)

	byName := map[string]CheckResult{}
	for _, r := range report.Results {
		byName[r.Check] = r
	}
	assert.Equal(t, 2, byName["chats"].Items)
	assert.Equal(t, "settings store offline", byName["token_settings"].Error)
	assert.Equal(t, 0, byName["token_settings"].Retries, "server errors are not retried")
	assert.Equal(t, "unknown check: nope", byName["nope"].Error)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, saveReport(report, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var saved SmokeReport
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, server.URL, saved.BaseURL)

	var summary bytes.Buffer
	printSummary(&summary, report)
	assert.Contains(t, summary.String(), "[FAIL] token_settings")
}

func TestRunner_NetworkFailureIsRetried(t *testing.T) {
	server := newBackend(t)
	url := server.URL
	server.Close()

	client, err := admin.NewClient(&admin.ClientOptions{BaseURL: url, Token: "tok1"})
	require.NoError(t, err)

	runner := NewRunner(&SmokeConfig{
		ChecksToRun:   []string{"summary"},
		FetchSettings: &config.Config{RetryCount: 2, RetryDelay: time.Millisecond},
	}, client, &bytes.Buffer{})

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.False(t, report.Results[0].Passed)
	assert.Equal(t, 2, report.Results[0].Retries)
	assert.Equal(t, admin.NetworkErrorMessage, report.Results[0].Error)
}

func TestRunner_RequiresSession(t *testing.T) {
	client, err := admin.NewClient(&admin.ClientOptions{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = NewRunner(&SmokeConfig{ChecksToRun: defaultChecks}, client, &bytes.Buffer{}).Run(context.Background())
	assert.ErrorIs(t, err, admin.ErrNotAuthenticated)
}
