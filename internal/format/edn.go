package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes an EDN rendering of v.
//
// Only the JSON data model is covered (maps, vectors, strings, numbers,
// booleans, nil). Values go through encoding/json first so json tags decide
// field names; map keys become keywords.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}

	e := &ednWriter{pretty: pretty}
	e.value(x, 0)
	e.buf.WriteByte('\n')
	_, err = w.Write(e.buf.Bytes())
	return err
}

type ednWriter struct {
	buf    bytes.Buffer
	pretty bool
}

func (e *ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			e.buf.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			e.buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		e.open('[', len(t) == 0)
		for i, it := range t {
			e.elem(i, depth)
			e.value(it, depth+1)
		}
		e.close(']', len(t) == 0, depth)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.open('{', len(keys) == 0)
		for i, k := range keys {
			e.elem(i, depth)
			e.buf.WriteString(keyword(k))
			e.buf.WriteByte(' ')
			e.value(t[k], depth+1)
		}
		e.close('}', len(keys) == 0, depth)
	default:
		e.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

func (e *ednWriter) open(c byte, empty bool) {
	e.buf.WriteByte(c)
	if e.pretty && !empty {
		e.buf.WriteByte('\n')
	}
}

func (e *ednWriter) elem(i, depth int) {
	if i > 0 {
		if e.pretty {
			e.buf.WriteByte('\n')
		} else {
			e.buf.WriteByte(' ')
		}
	}
	if e.pretty {
		e.buf.WriteString(strings.Repeat("  ", depth+1))
	}
}

func (e *ednWriter) close(c byte, empty bool, depth int) {
	if e.pretty && !empty {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
	}
	e.buf.WriteByte(c)
}

// keyword turns a JSON key into an EDN keyword. Category IDs are already
// keyword-safe; anything else has whitespace replaced.
func keyword(s string) string {
	return ":" + strings.Join(strings.Fields(s), "-")
}
