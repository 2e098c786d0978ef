package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/envbind/internal/config"
	"github.com/eugenenazirov/envbind/internal/schema"
	"github.com/eugenenazirov/envbind/pkg/binding"
)

const mask = "******"

// Render writes resolved in format. Keys keep declaration order, followed by
// prefix-discovered variables. Secret fields are masked.
func Render(w io.Writer, format string, resolved *binding.Config, s *schema.Schema) error {
	var (
		out []byte
		err error
	)
	switch format {
	case config.FormatYAML:
		out, err = renderYAML(resolved, s)
	case config.FormatJSON:
		out, err = renderJSON(resolved, s)
	case config.FormatDotenv:
		out, err = renderDotenv(resolved, s)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	_, err = w.Write(out)
	return err
}

// outputValue keeps primitives as they are and renders everything else with
// its display form.
func outputValue(name string, v any, s *schema.Schema) any {
	if s.Secret(name) {
		return mask
	}
	switch val := v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return val
	case float32:
		return finite(float64(val), val)
	case float64:
		return finite(val, val)
	case []string:
		return val
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}

// finite returns v unless f is NaN or infinite, which JSON cannot encode.
func finite(f float64, v any) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}

func displayValue(name string, v any, s *schema.Schema) string {
	switch val := outputValue(name, v, s).(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprint(val)
	}
}

func renderYAML(resolved *binding.Config, s *schema.Schema) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range resolved.Keys() {
		var value yaml.Node
		if err := value.Encode(outputValue(key, resolved.Value(key), s)); err != nil {
			return nil, err
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&value,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderJSON(resolved *binding.Config, s *schema.Schema) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, key := range resolved.Keys() {
		if i > 0 {
			buf.WriteString(",")
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(outputValue(key, resolved.Value(key), s))
		if err != nil {
			return nil, err
		}
		buf.WriteString("\n  ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
	}
	if resolved.Len() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func renderDotenv(resolved *binding.Config, s *schema.Schema) ([]byte, error) {
	vars := make(map[string]string, resolved.Len())
	for _, key := range resolved.Keys() {
		vars[key] = displayValue(key, resolved.Value(key), s)
	}
	out, err := godotenv.Marshal(vars)
	if err != nil {
		return nil, err
	}
	if out != "" {
		out += "\n"
	}
	return []byte(out), nil
}
