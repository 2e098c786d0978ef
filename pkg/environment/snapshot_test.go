package environment

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestFromOS(t *testing.T) {
	t.Setenv("ENVBIND_SNAPSHOT_TEST", "value=with=equals")

	snap := FromOS()
	got, ok := snap.Lookup("ENVBIND_SNAPSHOT_TEST")
	if !ok || got != "value=with=equals" {
		t.Fatalf("expected value=with=equals, got %q (%t)", got, ok)
	}

	t.Setenv("ENVBIND_SNAPSHOT_TEST", "changed")
	if got, _ := snap.Lookup("ENVBIND_SNAPSHOT_TEST"); got != "value=with=equals" {
		t.Fatalf("snapshot must not observe later changes, got %q", got)
	}
}

func TestFromPairs(t *testing.T) {
	snap := FromPairs([]string{"A=1", "B=", "broken", "=nokey", "A=2"})

	if got, _ := snap.Lookup("A"); got != "2" {
		t.Fatalf("expected later duplicate to win, got %q", got)
	}
	if got, ok := snap.Lookup("B"); !ok || got != "" {
		t.Fatalf("expected empty value to count as set")
	}
	if snap.Len() != 2 {
		t.Fatalf("expected 2 variables, got %d: %v", snap.Len(), snap.Keys())
	}
}

func TestFromMapCopies(t *testing.T) {
	src := map[string]string{"A": "1"}
	snap := FromMap(src)
	src["A"] = "mutated"

	if got, _ := snap.Lookup("A"); got != "1" {
		t.Fatalf("snapshot must copy its source, got %q", got)
	}

	out := snap.Map()
	out["A"] = "mutated"
	if got, _ := snap.Lookup("A"); got != "1" {
		t.Fatalf("Map must return a copy, got %q", got)
	}

	if FromMap(nil).Len() != 0 {
		t.Fatalf("expected empty snapshot")
	}
}

func TestWithPrefix(t *testing.T) {
	snap := FromMap(map[string]string{
		"TERM":         "screen-256color",
		"TERM_PROGRAM": "tmux",
		"HOME":         "/root",
		"DB_HOST":      "localhost",
	})

	got := snap.WithPrefix("TERM", "DB_")
	want := []string{"DB_HOST", "TERM", "TERM_PROGRAM"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := snap.WithPrefix(); got != nil {
		t.Fatalf("expected nil without prefixes, got %v", got)
	}
}

func TestFromDotenv(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.env")
	local := filepath.Join(dir, "local.env")

	if err := os.WriteFile(base, []byte("PORT=8080\nENVBIND_DOTENV_NAME=\"base app\"\n# comment\n"), 0o600); err != nil {
		t.Fatalf("write base: %v", err)
	}
	if err := os.WriteFile(local, []byte("PORT=9090\n"), 0o600); err != nil {
		t.Fatalf("write local: %v", err)
	}

	snap, err := FromDotenv(base, local)
	if err != nil {
		t.Fatalf("FromDotenv returned error: %v", err)
	}
	if got, _ := snap.Lookup("PORT"); got != "9090" {
		t.Fatalf("expected later file to win, got %q", got)
	}
	if got, _ := snap.Lookup("ENVBIND_DOTENV_NAME"); got != "base app" {
		t.Fatalf("expected quoted value to be unquoted, got %q", got)
	}
	if _, ok := os.LookupEnv("ENVBIND_DOTENV_NAME"); ok {
		t.Fatalf("dotenv values must not be exported to the process")
	}

	if _, err := FromDotenv(filepath.Join(dir, "missing.env")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMerge(t *testing.T) {
	merged, err := Merge(
		FromMap(map[string]string{"A": "file", "B": "file"}),
		Snapshot{},
		FromMap(map[string]string{"A": "process"}),
	)
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if got, _ := merged.Lookup("A"); got != "process" {
		t.Fatalf("expected later layer to win, got %q", got)
	}
	if got, _ := merged.Lookup("B"); got != "file" {
		t.Fatalf("expected B from first layer, got %q", got)
	}
}

func TestMergeKeepsEmptyOverride(t *testing.T) {
	merged, err := Merge(FromMap(map[string]string{"A": "file"}), FromMap(map[string]string{"A": ""}))
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if got, ok := merged.Lookup("A"); !ok || got != "" {
		t.Fatalf("expected empty override to win, got %q (%t)", got, ok)
	}
}
