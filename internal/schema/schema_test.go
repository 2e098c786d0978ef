package schema

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/eugenenazirov/envbind/pkg/binding"
	"github.com/eugenenazirov/envbind/pkg/environment"
	"github.com/eugenenazirov/envbind/pkg/field"
)

const sampleSchema = `
fields:
  - name: PORT
    type: int
    default: "8080"
  - name: DATABASE_URL
    type: url
    secret: true
    description: primary database
  - name: FEATURE_FLAG
    default: false
  - name: HOSTS
    type: list
    named_args:
      separator: ";"
  - name: MODE
    factory: lower
  - name: TIMEOUT
    type: duration
    default: 5s
  - name: DATA_DIR
    type: path
    named_args:
      base: /srv
    default: data
`

func TestParseAndBind(t *testing.T) {
	s, err := Parse([]byte(sampleSchema))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !s.Secret("DATABASE_URL") || s.Secret("PORT") {
		t.Fatalf("unexpected secret flags")
	}
	if got := s.Fields()[1].Description; got != "primary database" {
		t.Fatalf("unexpected description %q", got)
	}

	env := environment.FromMap(map[string]string{
		"DATABASE_URL": "postgres://db:5432/app",
		"HOSTS":        "a; b;;c",
		"MODE":         "DEBUG",
	})
	cfg, err := binding.Load(s.Declarations(), binding.WithEnvironment(env), binding.WithValidation(true))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if got := cfg.Value("PORT"); got != 8080 {
		t.Fatalf("expected typed default 8080, got %#v", got)
	}
	dbURL, err := binding.Get[*url.URL](cfg, "DATABASE_URL")
	if err != nil || dbURL.Host != "db:5432" {
		t.Fatalf("unexpected DATABASE_URL %v (%v)", dbURL, err)
	}
	if got := cfg.Value("FEATURE_FLAG"); got != false {
		t.Fatalf("expected inferred bool default, got %#v", got)
	}
	hosts, err := binding.Get[[]string](cfg, "HOSTS")
	if err != nil || !slices.Equal(hosts, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected HOSTS %v (%v)", hosts, err)
	}
	if got := cfg.Value("MODE"); got != "debug" {
		t.Fatalf("expected factory result, got %#v", got)
	}
	if got := cfg.Value("TIMEOUT"); got != 5*time.Second {
		t.Fatalf("expected 5s default, got %#v", got)
	}
	if got := cfg.Value("DATA_DIR"); got != filepath.Join("/srv", "data") {
		t.Fatalf("expected default built with named args, got %#v", got)
	}
}

func TestParseRejectsInvalidDeclarations(t *testing.T) {
	tests := map[string]string{
		"unknown type":    "fields:\n  - name: A\n    type: complex\n",
		"unknown factory": "fields:\n  - name: A\n    factory: reverse\n",
		"bad default":     "fields:\n  - name: A\n    type: int\n    default: abc\n",
		"non scalar":      "fields:\n  - name: A\n    default: [1, 2]\n",
		"missing name":    "fields:\n  - type: int\n",
		"invalid name":    "fields:\n  - name: 1BAD-NAME\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); !errors.Is(err, field.ErrInvalidFieldSpec) {
				t.Fatalf("expected ErrInvalidFieldSpec, got %v", err)
			}
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("fields:\n  - name: A\n    kind: int\n")); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(s.Declarations()) != 0 {
		t.Fatalf("expected no declarations")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(sampleSchema), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := len(s.Declarations()); got != 7 {
		t.Fatalf("expected 7 declarations, got %d", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestListType(t *testing.T) {
	got, err := listType.Constructor()("x|y", []any{"|"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got.([]string), []string{"x", "y"}) {
		t.Fatalf("unexpected list %v", got)
	}
	if _, err := listType.Constructor()("x", []any{1}, nil); err == nil {
		t.Fatalf("expected error for non-string separator")
	}
}

func TestURLTypeRequiresScheme(t *testing.T) {
	if _, err := binding.CastValue(urlType, "example.com"); !errors.Is(err, errMissingScheme) {
		t.Fatalf("expected errMissingScheme, got %v", err)
	}
}
