package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/iho/trustbook/internal/infrastructure/auth"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var err error
	out := captureOutput(t, func() {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		err = cmd.Execute()
	})
	return out, err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestEntriesAddSendsRequest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/entries/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-User-ID") != "user-1" {
			t.Errorf("expected caller header, got %q", r.Header.Get("X-User-ID"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"ent-1","business_date":"2024-01-05","amount":"12.5"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "--user", "user-1", "--token", "",
		"entries", "add", "--account", "acc-1", "--direction", "CREDIT", "--amount", "12.50",
		"--narration", "sold goods", "--date", "2024-01-05")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if got["account_id"] != "acc-1" || got["amount"] != "12.5" || got["business_date"] != "2024-01-05" {
		t.Fatalf("unexpected request body %+v", got)
	}
	if !strings.Contains(out, "ent-1") {
		t.Fatalf("expected entry in output, got %q", out)
	}
}

func TestCallSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"failed to add entry","message":"recalculation too large"}`))
	}))
	defer srv.Close()

	_, err := execute(t, "--url", srv.URL, "--user", "user-1", "--token", "", "rebuild", "acc-1")
	if err == nil || !strings.Contains(err.Error(), "recalculation too large") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestVerifyFailsWhenNotReconciled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"account_id":"acc-1","is_reconciled":false,"chain_breaks":[{"entry_id":"ent-2","stored":"90","expected":"-10"}]}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "--user", "user-1", "--token", "", "verify", "acc-1")
	if err == nil {
		t.Fatal("expected an error for an unreconciled account")
	}
	if !strings.Contains(out, "NOT RECONCILED") || !strings.Contains(out, "ent-2") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStatementRequiresRange(t *testing.T) {
	if _, err := execute(t, "statement", "acc-1"); err == nil {
		t.Fatal("expected an error without --from/--to")
	}
}

func TestTokenCmd(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"token", "user-1", "--secret", "s3cret", "--ttl", "1h"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	claims, err := auth.NewJWTManager("s3cret", time.Hour).Verify(strings.TrimSpace(buf.String()))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID() != "user-1" {
		t.Fatalf("expected subject user-1, got %q", claims.UserID())
	}
}
