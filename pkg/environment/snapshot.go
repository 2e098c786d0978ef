// Package environment provides read-only snapshots of environment variables.
//
// A Snapshot is copied once from its source and never written back, so
// binding against it cannot observe or cause changes to the process table.
package environment

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

// Snapshot is an immutable mapping of variable names to values.
type Snapshot struct {
	vars map[string]string
}

// FromOS copies the current process environment.
func FromOS() Snapshot {
	return FromPairs(os.Environ())
}

// FromPairs builds a snapshot from KEY=VALUE entries such as os.Environ.
// Entries without '=' are ignored; later duplicates win.
func FromPairs(pairs []string) Snapshot {
	vars := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = value
	}
	return Snapshot{vars: vars}
}

// FromMap copies m into a snapshot.
func FromMap(m map[string]string) Snapshot {
	vars := maps.Clone(m)
	if vars == nil {
		vars = map[string]string{}
	}
	return Snapshot{vars: vars}
}

// FromDotenv reads dotenv files without exporting them to the process.
// When several files define a key, the later file wins.
func FromDotenv(paths ...string) (Snapshot, error) {
	layers := make([]Snapshot, 0, len(paths))
	for _, path := range paths {
		vars, err := godotenv.Read(path)
		if err != nil {
			return Snapshot{}, fmt.Errorf("read env file %s: %w", path, err)
		}
		layers = append(layers, Snapshot{vars: vars})
	}
	return Merge(layers...)
}

// Merge layers snapshots; keys in later snapshots override earlier ones,
// including with an empty value.
func Merge(layers ...Snapshot) (Snapshot, error) {
	merged := make(map[string]string)
	for _, layer := range layers {
		if len(layer.vars) == 0 {
			continue
		}
		if err := mergo.Merge(&merged, layer.vars, mergo.WithOverride); err != nil {
			return Snapshot{}, fmt.Errorf("merge environment: %w", err)
		}
	}
	return Snapshot{vars: merged}, nil
}

// Lookup returns the value of key and whether it is set. An empty value
// counts as set.
func (s Snapshot) Lookup(key string) (string, bool) {
	value, ok := s.vars[key]
	return value, ok
}

// Keys returns all variable names in sorted order.
func (s Snapshot) Keys() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

// WithPrefix returns the sorted names starting with any of prefixes.
func (s Snapshot) WithPrefix(prefixes ...string) []string {
	if len(prefixes) == 0 {
		return nil
	}
	var out []string
	for _, key := range s.Keys() {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				out = append(out, key)
				break
			}
		}
	}
	return out
}

// Len returns the number of variables.
func (s Snapshot) Len() int { return len(s.vars) }

// Map returns a copy of the snapshot contents.
func (s Snapshot) Map() map[string]string {
	out := maps.Clone(s.vars)
	if out == nil {
		out = map[string]string{}
	}
	return out
}
