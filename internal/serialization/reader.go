package serialization

import (
	"encoding"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/jointrig/pkg/math"
)

// Reader looks up keys in a YAML mapping. Missing keys leave the destination
// untouched. The first malformed value is kept in Err and later reads keep
// going, so callers can read a whole block and check once.
type Reader struct {
	fields map[string]*yaml.Node
	err    error
}

// NewReader wraps a mapping node (or a document holding one).
func NewReader(n *yaml.Node) (*Reader, error) {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	r := &Reader{fields: make(map[string]*yaml.Node)}
	if n == nil {
		return r, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		r.fields[n.Content[i].Value] = n.Content[i+1]
	}
	return r, nil
}

// Unmarshal parses YAML bytes into a reader.
func Unmarshal(data []byte) (*Reader, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return NewReader(nil)
	}
	return NewReader(&doc)
}

// Err returns the first error raised while reading.
func (r *Reader) Err() error {
	return r.err
}

// Has reports whether key is present.
func (r *Reader) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// Len returns the number of keys in the mapping.
func (r *Reader) Len() int {
	return len(r.fields)
}

func (r *Reader) fail(key string, n *yaml.Node, format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("line %d: %s: %s", n.Line, key, fmt.Sprintf(format, args...))
	}
}

func (r *Reader) scalar(key string) (*yaml.Node, bool) {
	n, ok := r.fields[key]
	if !ok {
		return nil, false
	}
	if n.Kind != yaml.ScalarNode {
		r.fail(key, n, "expected a scalar")
		return nil, false
	}
	return n, true
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

// Float reads a float32 into dst.
func (r *Reader) Float(key string, dst *float32) {
	n, ok := r.scalar(key)
	if !ok {
		return
	}
	f, err := parseFloat(n.Value)
	if err != nil {
		r.fail(key, n, "invalid number %q", n.Value)
		return
	}
	*dst = f
}

// Int reads an integer into dst.
func (r *Reader) Int(key string, dst *int) {
	n, ok := r.scalar(key)
	if !ok {
		return
	}
	v, err := strconv.Atoi(n.Value)
	if err != nil {
		r.fail(key, n, "invalid integer %q", n.Value)
		return
	}
	*dst = v
}

// Bool reads a boolean into dst.
func (r *Reader) Bool(key string, dst *bool) {
	n, ok := r.scalar(key)
	if !ok {
		return
	}
	var v bool
	if err := n.Decode(&v); err != nil {
		r.fail(key, n, "invalid boolean %q", n.Value)
		return
	}
	*dst = v
}

// String reads a string into dst.
func (r *Reader) String(key string, dst *string) {
	n, ok := r.scalar(key)
	if !ok {
		return
	}
	*dst = n.Value
}

// Text reads a value through its text form, used for enums.
func (r *Reader) Text(key string, dst encoding.TextUnmarshaler) {
	n, ok := r.scalar(key)
	if !ok {
		return
	}
	if err := dst.UnmarshalText([]byte(n.Value)); err != nil {
		r.fail(key, n, "%v", err)
	}
}

func (r *Reader) floats(key string, count int) ([]float32, bool) {
	n, ok := r.fields[key]
	if !ok {
		return nil, false
	}
	if n.Kind != yaml.SequenceNode || len(n.Content) != count {
		r.fail(key, n, "expected a sequence of %d numbers", count)
		return nil, false
	}
	out := make([]float32, count)
	for i, item := range n.Content {
		f, err := parseFloat(item.Value)
		if err != nil {
			r.fail(key, item, "invalid number %q", item.Value)
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Vec3 reads a [x, y, z] sequence into dst.
func (r *Reader) Vec3(key string, dst *math.Vec3) {
	if v, ok := r.floats(key, 3); ok {
		*dst = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
}

// Quat reads a [x, y, z, w] sequence into dst.
func (r *Reader) Quat(key string, dst *math.Quat) {
	if v, ok := r.floats(key, 4); ok {
		*dst = math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
	}
}

// Object returns a reader over the nested mapping at key.
func (r *Reader) Object(key string) (*Reader, bool) {
	n, ok := r.fields[key]
	if !ok {
		return nil, false
	}
	child, err := NewReader(n)
	if err != nil {
		r.fail(key, n, "expected a mapping")
		return nil, false
	}
	return child, true
}

// Merge folds a nested reader's error into r.
func (r *Reader) Merge(child *Reader) {
	if child != nil && child.err != nil && r.err == nil {
		r.err = child.err
	}
}
