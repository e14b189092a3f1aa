// Package serialization reads and writes the ordered key-value documents
// used for persisted joint and scene settings. Documents are YAML mappings;
// key order follows write order so saved files diff cleanly.
package serialization

import (
	"encoding"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/jointrig/pkg/math"
)

// Writer appends keys to a YAML mapping node.
type Writer struct {
	node *yaml.Node
	err  error
}

// NewWriter returns a writer over an empty mapping.
func NewWriter() *Writer {
	return &Writer{node: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

// Node returns the mapping built so far.
func (w *Writer) Node() *yaml.Node {
	return w.node
}

// Len returns the number of keys written.
func (w *Writer) Len() int {
	return len(w.node.Content) / 2
}

// Err returns the first error raised while writing.
func (w *Writer) Err() error {
	return w.err
}

// Keys lists the written keys in order.
func (w *Writer) Keys() []string {
	keys := make([]string, 0, w.Len())
	for i := 0; i+1 < len(w.node.Content); i += 2 {
		keys = append(keys, w.node.Content[i].Value)
	}
	return keys
}

// Marshal encodes the mapping as YAML.
func (w *Writer) Marshal() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return yaml.Marshal(w.node)
}

func (w *Writer) put(key string, value *yaml.Node) {
	w.node.Content = append(w.node.Content, scalar("!!str", key), value)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// floatNode encodes v in its shortest form. Whole numbers are tagged as
// integers so the encoder writes them without an explicit tag.
func floatNode(v float32) *yaml.Node {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return scalar("!!int", s)
	}
	return scalar("!!float", s)
}

// Float writes a float32 value.
func (w *Writer) Float(key string, v float32) {
	w.put(key, floatNode(v))
}

// Int writes an integer value.
func (w *Writer) Int(key string, v int) {
	w.put(key, scalar("!!int", strconv.Itoa(v)))
}

// Bool writes a boolean value.
func (w *Writer) Bool(key string, v bool) {
	w.put(key, scalar("!!bool", strconv.FormatBool(v)))
}

// String writes a string value.
func (w *Writer) String(key, v string) {
	w.put(key, scalar("!!str", v))
}

// Text writes a value through its text form, used for enums.
func (w *Writer) Text(key string, v encoding.TextMarshaler) {
	text, err := v.MarshalText()
	if err != nil {
		if w.err == nil {
			w.err = fmt.Errorf("writing %s: %w", key, err)
		}
		return
	}
	w.String(key, string(text))
}

// Vec3 writes a vector as a flow sequence [x, y, z].
func (w *Writer) Vec3(key string, v math.Vec3) {
	w.put(key, floatSeq(v.X, v.Y, v.Z))
}

// Quat writes a rotation as a flow sequence [x, y, z, w].
func (w *Writer) Quat(key string, q math.Quat) {
	w.put(key, floatSeq(q.X, q.Y, q.Z, q.W))
}

func floatSeq(values ...float32) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, v := range values {
		seq.Content = append(seq.Content, floatNode(v))
	}
	return seq
}

// Object writes a nested mapping filled by fn. Empty objects are kept so a
// reader can tell an explicit empty block from a missing one.
func (w *Writer) Object(key string, fn func(*Writer)) {
	child := NewWriter()
	fn(child)
	if child.err != nil && w.err == nil {
		w.err = child.err
	}
	w.put(key, child.node)
}

