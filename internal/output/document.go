// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/staranto/confdoc/internal/store"
)

// Document writes a whole record. Raw output is one compact line, yaml keeps
// the stored key order and everything else is indented json.
func Document(w io.Writer, raw store.Raw, format string) error {
	b, err := raw.Bytes()
	if err != nil {
		return err
	}

	switch format {
	case FormatRaw:
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatYAML:
		// JSON is valid YAML, so MapSlice keeps the original key order.
		var doc yaml.MapSlice
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("failed to convert to yaml: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatJSON, FormatText, "":
		var buf bytes.Buffer
		if err := json.Indent(&buf, b, "", "  "); err != nil {
			return fmt.Errorf("failed to indent json: %w", err)
		}
		buf.WriteByte('\n')
		_, err = buf.WriteTo(w)
		return err
	default:
		return fmt.Errorf("unknown output format %q; want one of %v", format, Formats)
	}
}
