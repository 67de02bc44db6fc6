// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"cmp"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/confdoc/internal/attrs"
)

// filterRegex splits an expression into key, operator and target. Operators
// are one of = ^ ~ < > @ or /, optionally prefixed with '!'.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// Fielder is anything whose JSON can be queried by gjson path. Posts and
// authors both are.
type Fielder interface {
	Field(path string) gjson.Result
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs are logged and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("CONFDOC_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil || parts[1] == "" {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(parts[2], "!")
		filters = append(filters, Filter{
			Key:     strings.TrimSpace(parts[1]),
			Negate:  negate,
			Operand: strings.TrimPrefix(parts[2], "!"),
			Target:  parts[3],
		})
	}

	return filters
}

// Predicate returns a function reporting whether a record passes every filter
// in spec. Filter keys are attr titles resolved through al.
func Predicate[T Fielder](al attrs.AttrList, spec string) func(T) bool {
	filters := BuildFilters(spec)
	return func(candidate T) bool {
		return Apply(candidate, al, filters)
	}
}

// Apply reports whether candidate matches all of filters.
func Apply(candidate Fielder, al attrs.AttrList, filters []Filter) bool {
	if len(filters) == 0 {
		return true
	}

	for _, filter := range filters {
		attr, ok := al.Find(filter.Key)

		// An unknown key is reported and ignored.
		if !ok {
			msg := fmt.Sprintf("filter key not found: %s", filter.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		res := candidate.Field(attr.Key)
		if !res.Exists() || res.Type == gjson.Null {
			return false
		}

		var result bool
		switch res.Type {
		case gjson.String:
			result = checkStringOperand(res.String(), filter)
		case gjson.True, gjson.False:
			result = checkStringOperand(strconv.FormatBool(res.Bool()), filter)
		case gjson.Number:
			result = checkNumericOperand(res, filter)
		default:
			if filter.Operand == "@" {
				result = checkContainsOperand(res.Value(), filter)
			} else {
				result = checkStringOperand(res.Raw, filter)
			}
		}

		if !result {
			return false
		}
	}

	return true
}

// checkContainsOperand evaluates a membership style filter (operand '@')
// against array or object values.
func checkContainsOperand(value any, filter Filter) bool {
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if fmt.Sprint(item) == filter.Target {
				return !filter.Negate
			}
		}
		return filter.Negate
	case map[string]any:
		_, found := val[filter.Target]
		return found == !filter.Negate
	default:
		log.Error(fmt.Sprintf("unsupported type for contains filtering: %T", value))
		return false
	}
}

// checkNumericOperand compares a JSON number against the filter target.
// Integers are compared as int64 so ids keep full precision. The text
// operands ^ @ and / apply to the number's literal form.
func checkNumericOperand(res gjson.Result, filter Filter) bool {
	switch filter.Operand {
	case "^", "@", "/":
		return checkStringOperand(res.Raw, filter)
	}

	target := strings.TrimSpace(filter.Target)
	if vi, err := strconv.ParseInt(res.Raw, 10, 64); err == nil {
		if ti, err := strconv.ParseInt(target, 10, 64); err == nil {
			return checkOrdering(cmp.Compare(vi, ti), filter)
		}
	}

	tgt, err := strconv.ParseFloat(target, 64)
	if err != nil {
		log.Error("invalid numeric target: " + filter.Target)
		return false
	}
	return checkOrdering(cmp.Compare(res.Float(), tgt), filter)
}

func checkOrdering(order int, filter Filter) bool {
	switch filter.Operand {
	case "=", "~":
		return (order == 0) == !filter.Negate
	case ">":
		return (order > 0) == !filter.Negate
	case "<":
		return (order < 0) == !filter.Negate
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Target == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Target) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Target) == !filter.Negate
	case ">":
		return value > filter.Target == !filter.Negate
	case "<":
		return value < filter.Target == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Target) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
