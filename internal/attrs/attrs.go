// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
)

// DefaultList is the column set used when --attrs is not given.
const DefaultList = "id_str:id,created_at:created:t,user.screen_name:author,lang,favorite_count:favs,full_text:text:60"

// timeLayouts are the timestamp forms accepted by the t and h transforms.
var timeLayouts = []string{time.RubyDate, time.RFC3339}

var lengthRe = regexp.MustCompile(`-?\d+`)

// now is swapped in tests so relative times are stable.
var now = time.Now

// Attr is one output column. Key is a gjson path into the post JSON.
type Attr struct {
	// The path to extract from the post JSON.
	Key string
	// Should this Attr be included in output or is it just
	// intended for filtering?
	Include bool
	// The column title and the key in json/yaml output.
	OutputKey string
	// Transformation spec to apply to the output value.
	TransformSpec string
}

// Transform applies the attr's spec to value. Only strings are transformed;
// anything else passes through.
func (a *Attr) Transform(value any) any {
	result, ok := value.(string)
	if !ok {
		return value
	}

	switch {
	case strings.ContainsAny(a.TransformSpec, "hH"):
		if t, ok := parseTime(result); ok {
			result = humanize.RelTime(t, now(), "ago", "from now")
		}
	case strings.ContainsAny(a.TransformSpec, "tT"):
		// Only convert when a zone was asked for. Otherwise the API's value is
		// shown as is.
		if tz := timezone(); tz != "" {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				log.WithError(err).Warnf("unknown timezone %s", tz)
				break
			}
			if t, ok := parseTime(result); ok {
				result = t.In(loc).Format("2006-01-02T15:04:05MST")
			} else {
				log.Errorf("failed to parse time: %s", result)
			}
		}
	}

	// The last case letter wins, so an attr's own spec overrides a global one
	// prepended to it. IOW...  --attrs '*::U,lang::l' will be lower case.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	// Same rule for lengths: the last number wins. A negative length keeps
	// both ends and elides the middle.
	if match := lengthRe.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		result = truncate(result, l)
	}

	return result
}

func truncate(s string, l int) string {
	runes := []rune(s)
	abs := int(math.Abs(float64(l)))
	if len(runes) <= abs || abs == 0 {
		return s
	}
	if l > 0 {
		return string(runes[:l])
	}
	lr := abs/2 - 1
	if lr < 1 {
		return string(runes[:abs])
	}
	return string(runes[:lr]) + ".." + string(runes[len(runes)-lr:])
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timezone prefers CONFDOC_TZ over TZ.
func timezone() string {
	if tz := os.Getenv("CONFDOC_TZ"); tz != "" {
		return tz
	}
	return os.Getenv("TZ")
}

type AttrList []Attr

// String returns the list in the same form the --attrs flag takes.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses each comma separated spec and adds it to the list. A spec is
// path[:title[:transform]]; a leading ! keeps the attr for filtering only.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")
		if len(fields) > 3 {
			return fmt.Errorf("invalid attr spec %q: too many fields", spec)
		}

		attr.Key = strings.TrimPrefix(strings.TrimSpace(fields[keyIdx]), ".")
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = strings.TrimPrefix(attr.Key[1:], ".")
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q: empty path", spec)
		}

		if attr.Key == "*" {
			attr.Include = false
		}

		// A lone path is titled by its last segment.
		if len(fields) == 1 {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		} else if out := strings.TrimSpace(fields[outputIdx]); out != "" {
			attr.OutputKey = out
		} else {
			attr.OutputKey = attr.Key
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// Re-specifying an attr that is already present (a default, or a
		// double entry) updates it in place.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the spec of a "*" attr to every attr in the
// list.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for i := range *a {
		if (*a)[i].Key == "*" {
			spec = (*a)[i].TransformSpec
			break
		}
	}

	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}

	return nil
}

// Included returns the attrs that are output columns.
func (a AttrList) Included() AttrList {
	out := make(AttrList, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// Find returns the attr titled name.
func (a AttrList) Find(name string) (Attr, bool) {
	for _, attr := range a {
		if attr.OutputKey == name {
			return attr, true
		}
	}
	return Attr{}, false
}

func (a *AttrList) Type() string {
	return "list"
}
