package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestMain(m *testing.M) {
	keyring.MockInit()
	os.Exit(m.Run())
}

func fakeNOAA(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("stations") != "USW00023293" {
			fmt.Fprint(w, "[]")
			return
		}
		fmt.Fprint(w, `[{"DATE":"2024-10-02","STATION":"USW00023293","PRCP":"0.50"},
			{"DATE":"2024-11-05","STATION":"USW00023293","PRCP":1.2}]`)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("NOAA_BASE_URL", srv.URL)
	t.Setenv("HTTPS_PROXY", "")
	t.Setenv("RAINFALL_SCHEDULE", "")
	t.Setenv("SQLITE_PATH", "")
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_JSONWithFallback(t *testing.T) {
	fakeNOAA(t)
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "history.db"))

	out, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--start", "2024-10-01", "--end", "2024-11-30", "--json")
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	if len(got) != 2 || got[0]["precipitation_in"] != 0.5 {
		t.Errorf("records = %v", got)
	}
}

func TestRoot_Errors(t *testing.T) {
	fakeNOAA(t)
	cfg := filepath.Join(t.TempDir(), "none.yaml")

	cases := map[string][]string{
		"inverted window": {"--config", cfg, "--start", "2024-11-02", "--end", "2024-11-01"},
		"bad date":        {"--config", cfg, "--start", "10/01/2024"},
		"bad schedule":    {"--config", cfg, "--schedule", "every morning"},
		"positional arg":  {"--config", cfg, "extra"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := execute(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRoot_TextReport(t *testing.T) {
	fakeNOAA(t)

	out, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--start", "2024-10-01", "--end", "2024-11-30")
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !strings.Contains(out, "San Jose Airport, CA") || !strings.Contains(out, "1.70") {
		t.Errorf("unexpected report:\n%s", out)
	}
}
