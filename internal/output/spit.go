// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/staranto/confdoc/internal/attrs"
	"github.com/staranto/confdoc/internal/store"
)

// Formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatRaw  = "raw"
)

// Formats lists the valid --output values.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatRaw}

// Record is anything that can be rendered: a post or an author.
type Record interface {
	Field(path string) gjson.Result
	Raw() store.Raw
}

// Options controls rendering.
type Options struct {
	Format string
	Color  bool
	Titles bool
	Sort   string
}

// SliceDiceSpit extracts the attrs from each record, transforms and sorts the
// rows and writes them to w in the requested format. Raw output skips all of
// that and writes each record's JSON on its own line.
func SliceDiceSpit[T Record](w io.Writer, recs []T, al attrs.AttrList, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	if opts.Format == FormatRaw {
		for _, r := range recs {
			b, err := r.Raw().Bytes()
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, string(b)); err != nil {
				return err
			}
		}
		return nil
	}

	rows := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, Row(r, al))
	}

	SortDataset(rows, opts.Sort)

	return Emit(w, rows, al, opts)
}

// Row extracts and transforms every attr of r.
func Row(r Record, al attrs.AttrList) map[string]any {
	row := make(map[string]any, len(al))
	for i := range al {
		if al[i].Key == "*" {
			continue
		}
		value := Value(r.Field(al[i].Key))
		if al[i].TransformSpec != "" {
			value = al[i].Transform(value)
		}
		row[al[i].OutputKey] = value
	}
	return row
}

// Value converts a gjson result to a plain Go value. Integers stay int64 so
// ids are not rounded through float64.
func Value(res gjson.Result) any {
	if res.Type == gjson.Number {
		if i, err := strconv.ParseInt(res.Raw, 10, 64); err == nil {
			return i
		}
		return res.Float()
	}
	return res.Value()
}

// Emit writes rows in the requested format. Only included attrs are written.
func Emit(w io.Writer, rows []map[string]any, al attrs.AttrList, opts Options) error {
	included := al.Included()

	switch opts.Format {
	case FormatJSON:
		projected := project(rows, included)
		ordered := make([]orderedRow, len(projected))
		for i := range projected {
			ordered[i] = orderedRow(projected[i])
		}
		b, err := marshalJSON(ordered)
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatYAML:
		b, err := yaml.Marshal(project(rows, included))
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case FormatText, "":
		return TableWriter(w, rows, included, opts)
	default:
		log.Errorf("unknown output format: %s", opts.Format)
		return fmt.Errorf("unknown output format %q; want one of %v", opts.Format, Formats)
	}
}

// project keeps only the included attrs of each row, as an ordered yaml slice
// so key order follows the attr list.
func project(rows []map[string]any, al attrs.AttrList) []yaml.MapSlice {
	out := make([]yaml.MapSlice, 0, len(rows))
	for _, row := range rows {
		ms := make(yaml.MapSlice, 0, len(al))
		for _, a := range al {
			ms = append(ms, yaml.MapItem{Key: a.OutputKey, Value: row[a.OutputKey]})
		}
		out = append(out, ms)
	}
	return out
}

// orderedRow is a row that marshals to a JSON object with its keys in attr
// order.
type orderedRow yaml.MapSlice

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalJSON(fmt.Sprint(item.Key))
		if err != nil {
			return nil, err
		}
		v, err := marshalJSON(item.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalJSON encodes v without escaping HTML, so post text keeps its angle
// brackets.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
