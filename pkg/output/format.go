package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pagegrab/pkg/config"
	"github.com/entrhq/pagegrab/pkg/extract"
)

// Format renders result as the lines to emit.
//
// plain emits one line per list element or one line for a single value, and
// nothing at all for an empty result. json and yaml serialize the value, with
// Empty becoming null; style only affects json.
func Format(result extract.Result, mode config.OutputMode, style config.FormatStyle) ([]string, error) {
	switch mode {
	case config.OutputPlain:
		return formatPlain(result), nil
	case config.OutputJSON:
		return formatJSON(result, style)
	case config.OutputYAML:
		return formatYAML(result)
	default:
		return nil, fmt.Errorf("unsupported output: %s", mode)
	}
}

func formatPlain(result extract.Result) []string {
	if result.IsEmpty() {
		return nil
	}
	if result.Kind() == extract.KindList {
		return result.Values()
	}
	return []string{result.Value()}
}

func formatJSON(result extract.Result, style config.FormatStyle) ([]string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	switch style {
	case config.FormatPlain:
	case config.FormatIndent:
		enc.SetIndent("", "  ")
	default:
		return nil, fmt.Errorf("unsupported format: %s", style)
	}

	if err := enc.Encode(result.Interface()); err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return splitLines(buf.String()), nil
}

func formatYAML(result extract.Result) ([]string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(result.Interface()); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return splitLines(buf.String()), nil
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// Write emits each line followed by a newline.
func Write(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
