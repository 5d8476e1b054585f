package result

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the variants of a JSON value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is an explicit recursive sum type over JSON. The generic markdown
// renderer operates on it instead of sniffing map[string]any directly.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	Arr    []Value
	Obj    []Member
}

// Member is one key/value pair of an object. Members are kept sorted by key
// so rendering is deterministic.
type Member struct {
	Key   string
	Value Value
}

// FromAny converts a decoded JSON value (the output of encoding/json into
// any) into a Value. Unrecognized Go types degrade to their fmt string form.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindNull}
	case bool:
		return Value{Kind: KindBool, Bool: t}
	case float64:
		return Value{Kind: KindNumber, Number: t}
	case int:
		return Value{Kind: KindNumber, Number: float64(t)}
	case string:
		return Value{Kind: KindString, Str: t}
	case []any:
		arr := make([]Value, 0, len(t))
		for _, item := range t {
			arr = append(arr, FromAny(item))
		}
		return Value{Kind: KindArray, Arr: arr}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := make([]Member, 0, len(keys))
		for _, k := range keys {
			obj = append(obj, Member{Key: k, Value: FromAny(t[k])})
		}
		return Value{Kind: KindObject, Obj: obj}
	default:
		return Value{Kind: KindString, Str: fmt.Sprintf("%v", t)}
	}
}

// Scalar reports whether the value renders on a single line.
func (v Value) Scalar() bool {
	switch v.Kind {
	case KindArray, KindObject:
		return false
	}
	return true
}

// ScalarString returns the primitive's display form.
func (v Value) ScalarString() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return v.Str
	}
}

// Markdown renders the value as markdown: objects become bolded key/value
// pairs or nested bullet lists, arrays become bullet lists, primitives their
// string form, all depth-indented.
func (v Value) Markdown() string {
	var b strings.Builder
	writeMarkdown(&b, v, 0)
	return strings.TrimRight(b.String(), "\n")
}

func writeMarkdown(b *strings.Builder, v Value, depth int) {
	indent := strings.Repeat("  ", depth)

	switch v.Kind {
	case KindObject:
		for _, m := range v.Obj {
			if m.Value.Scalar() {
				fmt.Fprintf(b, "%s- **%s:** %s\n", indent, m.Key, m.Value.ScalarString())
				continue
			}
			fmt.Fprintf(b, "%s- **%s:**\n", indent, m.Key)
			writeMarkdown(b, m.Value, depth+1)
		}
	case KindArray:
		for _, item := range v.Arr {
			if item.Scalar() {
				fmt.Fprintf(b, "%s- %s\n", indent, item.ScalarString())
				continue
			}
			fmt.Fprintf(b, "%s-\n", indent)
			writeMarkdown(b, item, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s%s\n", indent, v.ScalarString())
	}
}
