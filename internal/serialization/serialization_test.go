package serialization

import (
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/jointrig/pkg/math"
)

type mode int

func (m mode) MarshalText() ([]byte, error) {
	switch m {
	case 0:
		return []byte("Off"), nil
	case 1:
		return []byte("On"), nil
	}
	return nil, errors.New("bad mode")
}

func (m *mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Off":
		*m = 0
	case "On":
		*m = 1
	default:
		return errors.New("unknown mode " + string(text))
	}
	return nil
}

func TestWriterKeepsOrder(t *testing.T) {
	w := NewWriter()
	w.Float("Extent", 2.5)
	w.Bool("Enabled", true)
	w.Int("Count", 3)
	w.Object("Drive0", func(d *Writer) {
		d.Float("Stiffness", 10)
	})

	want := []string{"Extent", "Enabled", "Count", "Drive0"}
	got := w.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	data, err := w.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Index(string(data), "Extent") > strings.Index(string(data), "Count") {
		t.Errorf("expected Extent before Count in output:\n%s", data)
	}
}

func TestRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Float("F", 0.01)
	w.Float("Max", math.MaxFloat)
	w.Bool("B", true)
	w.String("S", "hinge")
	w.Text("M", mode(1))
	w.Vec3("V", math.Vec3{X: 1, Y: -2, Z: 3.5})
	w.Quat("Q", math.QuatIdentity())
	w.Object("O", func(o *Writer) { o.Int("I", 7) })

	data, err := w.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	r, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	var (
		f, limit float32
		b        bool
		s        string
		m        mode
		v        math.Vec3
		q        math.Quat
		i        int
	)
	r.Float("F", &f)
	r.Float("Max", &limit)
	r.Bool("B", &b)
	r.String("S", &s)
	r.Text("M", &m)
	r.Vec3("V", &v)
	r.Quat("Q", &q)
	if o, ok := r.Object("O"); ok {
		o.Int("I", &i)
		r.Merge(o)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}

	if f != 0.01 {
		t.Errorf("expected 0.01, got %v", f)
	}
	if limit != math.MaxFloat {
		t.Errorf("expected MaxFloat, got %v", limit)
	}
	if !b || s != "hinge" || m != 1 || i != 7 {
		t.Errorf("unexpected values b=%v s=%q m=%v i=%d", b, s, m, i)
	}
	if v != (math.Vec3{X: 1, Y: -2, Z: 3.5}) {
		t.Errorf("expected (1,-2,3.5), got %v", v)
	}
	if q != math.QuatIdentity() {
		t.Errorf("expected identity, got %v", q)
	}
}

func TestReaderLeavesMissingKeys(t *testing.T) {
	r, err := Unmarshal([]byte("Lower: -45\n"))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	lower, upper := float32(-90), float32(90)
	r.Float("Lower", &lower)
	r.Float("Upper", &upper)

	if lower != -45 {
		t.Errorf("expected lower -45, got %v", lower)
	}
	if upper != 90 {
		t.Errorf("expected upper to stay 90, got %v", upper)
	}
}

func TestReaderErrors(t *testing.T) {
	r, err := Unmarshal([]byte("A: abc\nB: 2\nM: Sideways\nV: [1, 2]\n"))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	a, b := float32(1), float32(0)
	r.Float("A", &a)
	r.Float("B", &b)

	if a != 1 {
		t.Errorf("malformed value should not be applied, got %v", a)
	}
	if b != 2 {
		t.Errorf("expected later reads to continue, got %v", b)
	}
	if r.Err() == nil || !strings.Contains(r.Err().Error(), "A") {
		t.Errorf("expected error naming key A, got %v", r.Err())
	}

	var m mode
	var v math.Vec3
	r.Text("M", &m)
	r.Vec3("V", &v)
	if v != (math.Vec3{}) {
		t.Errorf("short sequence should not be applied, got %v", v)
	}
}

func TestNewReaderRejectsScalar(t *testing.T) {
	if _, err := Unmarshal([]byte("just text")); err == nil {
		t.Error("expected error for non-mapping document")
	}
}

func TestEmptyDocument(t *testing.T) {
	r, err := Unmarshal(nil)
	if err != nil {
		t.Fatalf("Unmarshal(nil) failed: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("expected empty reader, got %d keys", r.Len())
	}
}

func TestWriterFloatsHaveNoTags(t *testing.T) {
	w := NewWriter()
	w.Float("Whole", 2)
	w.Float("Half", 0.5)
	w.Float("Max", math.MaxFloat)
	w.Vec3("V", math.Vec3{X: 1, Y: 0.25})

	data, err := w.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "!!") {
		t.Errorf("expected no explicit tags, got:\n%s", out)
	}
	for _, line := range []string{"Whole: 2\n", "Half: 0.5\n", "V: [1, 0.25, 0]\n"} {
		if !strings.Contains(out, line) {
			t.Errorf("expected %q in:\n%s", line, out)
		}
	}

	r, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	var whole, max float32
	r.Float("Whole", &whole)
	r.Float("Max", &max)
	if whole != 2 || max != math.MaxFloat {
		t.Errorf("expected 2 and MaxFloat, got %v and %v", whole, max)
	}
}
