package main

import "testing"

func TestParseSteps(t *testing.T) {
	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("expected default of 1 step, got %d err=%v", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("expected 3 steps, got %d err=%v", got, err)
	}
	for _, raw := range []string{"0", "-1", "many"} {
		if _, err := parseSteps([]string{raw}); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if got, err := parseVersion("2"); err != nil || got != 2 {
		t.Fatalf("unexpected version %d err=%v", got, err)
	}
	if _, err := parseVersion("-2"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if got, err := parseTarget("1"); err != nil || got != 1 {
		t.Fatalf("unexpected target %d err=%v", got, err)
	}
	if _, err := parseTarget("x"); err == nil {
		t.Fatalf("expected error for invalid target")
	}
}

func TestNormalizeDBURL(t *testing.T) {
	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")
	got := normalizeDBURL("postgres://u:p@db:5432/doubles_league?sslmode=disable")
	if got != "postgres://u:p@db:5432/doubles_league?disable_prepared_binary_result=yes&sslmode=disable" {
		t.Fatalf("unexpected url %q", got)
	}

	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
	in := "postgres://u:p@db:5432/doubles_league"
	if got := normalizeDBURL(in); got != in {
		t.Fatalf("expected url unchanged, got %q", got)
	}
}
