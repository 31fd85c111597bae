package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Render.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RenderJSON renders plan as JSON
func RenderJSON(p *Plan) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// RenderYAML renders plan as YAML
func RenderYAML(p *Plan) ([]byte, error) {
	return yaml.Marshal(p)
}

// Render renders plan in the named format.
func Render(p *Plan, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return RenderJSON(p)
	case FormatYAML, "yml":
		return RenderYAML(p)
	}
	return nil, fmt.Errorf("unsupported output format '%s'", format)
}

// Write renders plan to w.
func Write(w io.Writer, p *Plan, format string) error {
	data, err := Render(p, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) string {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// WriteFile writes plan to path, creating parent directories as needed.
func WriteFile(p *Plan, path, format string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := Render(p, format)
	if err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}
