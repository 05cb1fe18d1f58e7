package catalog

import (
	"strconv"
	"strings"
)

// Range is an inclusive numeric filter bound. Min greater than Max is legal
// and simply matches nothing.
type Range struct {
	Min float64
	Max float64
}

// Filters maps a filter key to one of: []string, Range, bool, or a raw string.
// It is built once per request and never mutated afterwards.
type Filters map[string]any

// ParseFilters turns a compact filter expression like
// "company:Acme,Globex;price:0-100;stock:0-50" into a Filters map.
//
// Entries are separated by ";" and written "key:value". For the price and
// stock keys a value containing "-" is parsed as a min-max Range; a bound
// that does not parse as a number becomes 0. A value containing "," becomes
// a list of trimmed non-empty strings. The literals "true" and "false"
// become booleans; anything else stays a raw string. Malformed entries are
// skipped. The parser never fails: bad input degrades to a partial or empty
// map.
func ParseFilters(s string) Filters {
	out := Filters{}
	if s == "" {
		return out
	}

	for _, entry := range strings.Split(s, ";") {
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		key, value := parts[0], parts[1]

		switch {
		case (key == "price" || key == "stock") && strings.Contains(value, "-"):
			bounds := strings.Split(value, "-")
			out[key] = Range{Min: looseNumber(bounds[0]), Max: looseNumber(bounds[1])}
		case strings.Contains(value, ","):
			var list []string
			for _, v := range strings.Split(value, ",") {
				if v = strings.TrimSpace(v); v != "" {
					list = append(list, v)
				}
			}
			out[key] = list
		case value == "true":
			out[key] = true
		case value == "false":
			out[key] = false
		default:
			out[key] = value
		}
	}

	return out
}

// looseNumber parses s as a float, treating anything non-numeric as 0.
func looseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// Companies normalizes the "company" entry into a list of trimmed non-empty
// names, whether the parser produced a list or a single scalar. Boolean
// scalars become their literal text, so "company:true" filters on the name
// "true" rather than disabling the filter.
func (f Filters) Companies() []string {
	switch v := f["company"].(type) {
	case []string:
		return v
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case bool:
		return []string{strconv.FormatBool(v)}
	}
	return nil
}

// NumericRange reports the Range stored under key, if any.
func (f Filters) NumericRange(key string) (Range, bool) {
	r, ok := f[key].(Range)
	return r, ok
}
