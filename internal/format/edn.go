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

// WriteEDN writes v as EDN. Values go through encoding/json first so json
// tags decide the keys; objects become maps with keyword keys.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	var buf bytes.Buffer
	p := ednPrinter{buf: &buf, pretty: pretty}
	p.value(x, 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednPrinter struct {
	buf    *bytes.Buffer
	pretty bool
}

func (p ednPrinter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		p.buf.WriteString("nil")
	case bool:
		p.buf.WriteString(strconv.FormatBool(t))
	case string:
		p.buf.WriteString(strconv.Quote(t))
	case json.Number:
		p.buf.WriteString(t.String())
	case []any:
		p.vector(t, depth)
	case map[string]any:
		p.mapping(t, depth)
	default:
		p.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

func (p ednPrinter) sep(depth int, last bool) {
	switch {
	case last && p.pretty:
		p.buf.WriteByte('\n')
		p.pad(depth)
	case last:
	case p.pretty:
		p.buf.WriteByte('\n')
	default:
		p.buf.WriteByte(' ')
	}
}

func (p ednPrinter) pad(depth int) {
	p.buf.WriteString(strings.Repeat("  ", depth))
}

func (p ednPrinter) vector(xs []any, depth int) {
	p.buf.WriteByte('[')
	if len(xs) > 0 && p.pretty {
		p.buf.WriteByte('\n')
	}
	for i, x := range xs {
		if p.pretty {
			p.pad(depth + 1)
		}
		p.value(x, depth+1)
		p.sep(depth, i == len(xs)-1)
	}
	p.buf.WriteByte(']')
}

func (p ednPrinter) mapping(m map[string]any, depth int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p.buf.WriteByte('{')
	if len(keys) > 0 && p.pretty {
		p.buf.WriteByte('\n')
	}
	for i, k := range keys {
		if p.pretty {
			p.pad(depth + 1)
		}
		p.buf.WriteByte(':')
		p.buf.WriteString(keyword(k))
		p.buf.WriteByte(' ')
		p.value(m[k], depth+1)
		p.sep(depth, i == len(keys)-1)
	}
	p.buf.WriteByte('}')
}

// keyword turns a json key into a kebab-case EDN keyword name.
func keyword(k string) string {
	k = strings.TrimSpace(k)
	k = strings.ReplaceAll(k, "_", "-")
	return strings.ReplaceAll(k, " ", "-")
}
