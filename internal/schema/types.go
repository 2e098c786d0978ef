package schema

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/eugenenazirov/envbind/pkg/field"
)

var errMissingScheme = errors.New("missing scheme")

var urlType = field.Constructed(func(raw string, _ []any, _ map[string]any) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, errMissingScheme
	}
	return u, nil
})

// pathType cleans the path and resolves relative paths against the named
// argument "base" when given.
var pathType = field.Constructed(func(raw string, _ []any, named map[string]any) (string, error) {
	path := filepath.Clean(raw)
	if base, ok := named["base"].(string); ok && base != "" && !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	return path, nil
})

// listType splits on the "separator" named argument, the first positional
// argument, or a comma. Items are trimmed and empty items dropped.
var listType = field.Constructed(func(raw string, args []any, named map[string]any) ([]string, error) {
	sep := ","
	if len(args) > 0 {
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("separator must be a string, got %T", args[0])
		}
		sep = s
	}
	if v, ok := named["separator"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("separator must be a string, got %T", v)
		}
		sep = s
	}
	if sep == "" {
		return nil, errors.New("separator must not be empty")
	}
	return splitList(raw, sep), nil
})

var types = map[string]field.Type{
	"string":   field.String,
	"int":      field.Int,
	"int64":    field.Int64,
	"uint":     field.Uint,
	"float":    field.Float,
	"bool":     field.Bool,
	"duration": field.Duration,
	"url":      urlType,
	"ip":       field.MustTypeFor[net.IP](),
	"path":     pathType,
	"list":     listType,
}

var factories = map[string]field.Factory{
	"trim":  func(raw string) (any, error) { return strings.TrimSpace(raw), nil },
	"lower": func(raw string) (any, error) { return strings.ToLower(raw), nil },
	"upper": func(raw string) (any, error) { return strings.ToUpper(raw), nil },
	"split": func(raw string) (any, error) { return splitList(raw, ","), nil },
}

func splitList(raw, sep string) []string {
	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
