package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/store/internal/config"
	"github.com/vango-dev/store/internal/errors"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDemo_Args(t *testing.T) {
	dir := writeConfig(t, `{"name": "counter", "initial": 1}`)

	out, err := execute(t, "demo", "--config", dir, "2", "3")
	if err != nil {
		t.Fatalf("demo error: %v", err)
	}

	for _, want := range []string{
		"counter = 1",
		"counter <- 2",
		"  notified: 2 (was 1)",
		"  notified: 3 (was 2)",
		"counter = 3 after 2 writes, 2 notifications, 0 suppressed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDemo_ConfigWrites(t *testing.T) {
	dir := writeConfig(t, `{"name": "names", "initial": "a", "writes": ["b", "c"]}`)

	out, err := execute(t, "demo", "--config", dir)
	if err != nil {
		t.Fatalf("demo error: %v", err)
	}
	if !strings.Contains(out, `names = "c" after 2 writes, 2 notifications`) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDemo_Reentrant(t *testing.T) {
	dir := writeConfig(t, `{"name": "echo", "initial": 0}`)

	out, err := execute(t, "demo", "--config", dir, "--reentrant", "1", "2")
	if err != nil {
		t.Fatalf("demo error: %v", err)
	}

	if got := strings.Count(out, "notified:"); got != 2 {
		t.Errorf("notified lines = %d, want 2:\n%s", got, out)
	}
	for _, want := range []string{
		`  notified: 1 (was 0)`,
		`  nested:   "1 (echo)", notification suppressed`,
		`  notified: 2 (was "1 (echo)")`,
		`echo = "2 (echo)" after 2 writes, 2 notifications, 2 suppressed`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDemo_InvalidArg(t *testing.T) {
	dir := writeConfig(t, `{}`)

	_, err := execute(t, "demo", "--config", dir, "not-json")
	var se *errors.StoreError
	if !stderrors.As(err, &se) || se.Code != "E150" {
		t.Fatalf("error = %v, want E150", err)
	}
}

func TestDemo_MissingConfig(t *testing.T) {
	_, err := execute(t, "demo", "--config", t.TempDir())
	var se *errors.StoreError
	if !stderrors.As(err, &se) || se.Code != "E141" {
		t.Fatalf("error = %v, want E141", err)
	}
}

func TestDemo_InvalidConfig(t *testing.T) {
	dir := writeConfig(t, `{"log": {"level": "loud"}}`)

	_, err := execute(t, "demo", "--config", dir)
	var se *errors.StoreError
	if !stderrors.As(err, &se) || se.Code != "E123" {
		t.Fatalf("error = %v, want E123", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}

	out, err = execute(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.Contains(out, "Go version:") {
		t.Errorf("version output missing Go version:\n%s", out)
	}
}

func TestApplyAddr(t *testing.T) {
	cfg := config.New()
	if err := applyAddr(cfg, "127.0.0.1:9100"); err != nil {
		t.Fatalf("applyAddr error: %v", err)
	}
	if cfg.Address() != "127.0.0.1:9100" {
		t.Errorf("Address() = %q", cfg.Address())
	}

	tests := []struct {
		addr string
		code string
	}{
		{"nohost", "E150"},
		{"localhost:http", "E122"},
		{"localhost:99999", "E122"},
	}
	for _, tt := range tests {
		var se *errors.StoreError
		if err := applyAddr(config.New(), tt.addr); !stderrors.As(err, &se) || se.Code != tt.code {
			t.Errorf("applyAddr(%q) = %v, want %s", tt.addr, err, tt.code)
		}
	}
}

func TestServeRouter(t *testing.T) {
	cfg := config.New()
	cfg.Name = "served"
	cfg.Initial = "start"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(newServeRouter(cfg, logger))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/store", strings.NewReader(`{"value": "next"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT error: %v", err)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode PUT body: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || body["value"] != "next" || body["old"] != "start" {
		t.Fatalf("PUT = %d %v", resp.StatusCode, body)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error: %v", err)
	}
	metrics, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(metrics), `store_notifications_total{status="success",store="served"} 1`) {
		t.Errorf("metrics missing notification counter:\n%s", metrics)
	}
}
