package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects how command results are rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatWide  Format = "wide"
)

// Tabular reports whether the format renders through a table writer
// rather than a marshaler.
func (f Format) Tabular() bool {
	return f == FormatTable || f == FormatWide
}

// Write renders obj in the requested format. Tabular formats go
// through the table renderer; structured formats marshal obj directly.
func Write(w io.Writer, format Format, obj any, table func(io.Writer)) error {
	if format.Tabular() {
		if table == nil {
			return fmt.Errorf("format %s has no table renderer", format)
		}
		table(w)
		return nil
	}
	return WriteObject(w, format, obj)
}

// WriteObject marshals obj as JSON or YAML. Tabular formats fall back
// to YAML, for objects that have no table shape (config, version).
func WriteObject(w io.Writer, format Format, obj any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(obj)
	case FormatYAML, FormatTable, FormatWide:
		data, err := yaml.Marshal(obj)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
