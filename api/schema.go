package api

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// Issue is a single validation failure inside a payload.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}

	return i.Path + ": " + i.Message
}

// Numeric is a balance that upstream sends as a number, a numeric string, or null.
type Numeric struct {
	Value float64
	Valid bool
}

// NumericOf returns a valid Numeric holding v.
func NumericOf(v float64) Numeric {
	return Numeric{Value: v, Valid: true}
}

// Or returns the value, or fallback when the value is null or absent.
func (n Numeric) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}

	return n.Value
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(n.Value)
}

// fields reads typed values out of one JSON object, collecting issues
// instead of stopping at the first bad field.
type fields struct {
	obj    gjson.Result
	path   string
	read   map[string]bool
	issues []Issue
}

func newFields(obj gjson.Result, path string) *fields {
	f := &fields{obj: obj, path: path, read: make(map[string]bool)}
	if !obj.IsObject() {
		f.issues = append(f.issues, Issue{Path: path, Message: "Expected object"})
	}

	return f
}

func (f *fields) fieldPath(key string) string {
	if f.path == "" {
		return key
	}

	return f.path + "." + key
}

func (f *fields) fail(key, format string, args ...any) {
	f.issues = append(f.issues, Issue{Path: f.fieldPath(key), Message: fmt.Sprintf(format, args...)})
}

func (f *fields) get(key string) gjson.Result {
	f.read[key] = true
	if !f.obj.IsObject() {
		return gjson.Result{}
	}

	return f.obj.Get(key)
}

// id accepts a number or a string and renders it as a string.
func (f *fields) id(key string) string {
	v := f.get(key)
	switch {
	case !v.Exists():
		f.fail(key, "Required")
	case v.Type == gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case v.Type == gjson.String:
		return v.Str
	default:
		f.fail(key, "Expected number or string")
	}

	return ""
}

func (f *fields) str(key string) string {
	v := f.get(key)
	switch {
	case !v.Exists():
		f.fail(key, "Required")
	case v.Type == gjson.String:
		return v.Str
	default:
		f.fail(key, "Expected string")
	}

	return ""
}

func (f *fields) optStr(key string) *string {
	v := f.get(key)
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		s := v.Str
		return &s
	default:
		f.fail(key, "Expected string")
		return nil
	}
}

func (f *fields) optBool(key string) *bool {
	v := f.get(key)
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True, gjson.False:
		b := v.Bool()
		return &b
	default:
		f.fail(key, "Expected boolean")
		return nil
	}
}

func (f *fields) optNumber(key string) *float64 {
	v := f.get(key)
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.Number:
		n := v.Num
		return &n
	default:
		f.fail(key, "Expected number")
		return nil
	}
}

func (f *fields) optInt(key string) *int64 {
	n := f.optNumber(key)
	if n == nil {
		return nil
	}

	i := int64(*n)
	if float64(i) != *n {
		f.fail(key, "Expected integer")
		return nil
	}

	return &i
}

func (f *fields) numeric(key string) Numeric {
	v := f.get(key)
	switch v.Type {
	case gjson.Null:
		return Numeric{}
	case gjson.Number:
		return NumericOf(v.Num)
	case gjson.String:
		n, ok := parseLeadingFloat(v.Str)
		if !ok {
			f.fail(key, "Invalid numeric value")
			return Numeric{}
		}
		return NumericOf(n)
	default:
		f.fail(key, "Expected number, string, or null")
		return Numeric{}
	}
}

// parseLeadingFloat reads the longest decimal prefix of s after leading
// whitespace, so "12abc" is 12 and "0x10" is 0. Strings with no digits up
// front and values outside the float64 range are rejected.
func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			end = exp
		}
	}

	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}

	return n, true
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func (f *fields) currency(key string) string {
	v := f.get(key)
	if !v.Exists() {
		f.fail(key, "Required")
		return ""
	}

	return f.currencyCode(key, v)
}

// optCurrency treats null, absent and "" as no currency.
func (f *fields) optCurrency(key string) *string {
	v := f.get(key)
	if v.Type == gjson.Null || (v.Type == gjson.String && v.Str == "") {
		return nil
	}

	code := f.currencyCode(key, v)
	if code == "" {
		return nil
	}

	return &code
}

func (f *fields) currencyCode(key string, v gjson.Result) string {
	if v.Type != gjson.String {
		f.fail(key, "Expected string")
		return ""
	}

	code := strings.TrimSpace(v.Str)
	if code == "" {
		f.fail(key, "Currency code cannot be empty")
		return ""
	}

	return strings.ToUpper(code)
}

// extra returns every field that was not read, so unknown upstream fields survive decoding.
func (f *fields) extra() map[string]json.RawMessage {
	if !f.obj.IsObject() {
		return nil
	}

	var out map[string]json.RawMessage
	f.obj.ForEach(func(key, value gjson.Result) bool {
		if f.read[key.String()] {
			return true
		}
		if out == nil {
			out = make(map[string]json.RawMessage)
		}
		out[key.String()] = json.RawMessage(value.Raw)
		return true
	})

	return out
}

// listItems accepts either a bare array or an object wrapping the array under wrapperKey.
// Any other shape is rejected.
func listItems(raw []byte, wrapperKey string) ([]gjson.Result, string, []Issue) {
	if !gjson.ValidBytes(raw) {
		return nil, "", []Issue{{Message: "Malformed JSON"}}
	}

	root := gjson.ParseBytes(raw)
	if root.IsArray() {
		return root.Array(), "", nil
	}

	if root.IsObject() {
		if wrapped := root.Get(wrapperKey); wrapped.IsArray() {
			return wrapped.Array(), wrapperKey, nil
		}
	}

	return nil, "", []Issue{{
		Path:    wrapperKey,
		Message: fmt.Sprintf("Expected an array or an object with a %q array", wrapperKey),
	}}
}

func itemPath(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}
