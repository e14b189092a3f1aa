// Package scene loads, saves and instantiates joint rigs described in YAML.
//
// A scene lists box bodies and the joints between them. Each joint carries a
// config block written by the joint's Serialize method. A scene may name a
// prefab scene; joint config blocks are then read on top of the prefab's
// joint with the same name, so they only need to hold the overrides.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/jointrig/internal/physics/joint"
	"github.com/Faultbox/jointrig/internal/serialization"
	"github.com/Faultbox/jointrig/pkg/math"
)

// Joint kinds.
const (
	KindD6    = "d6"
	KindHinge = "hinge"
)

// maxPrefabDepth bounds prefab chains, which also stops cycles.
const maxPrefabDepth = 4

var (
	// ErrUnknownBody is returned when a joint names a body that does not exist.
	ErrUnknownBody = errors.New("scene: unknown body")
	// ErrUnknownJointType is returned for a joint type other than d6 or hinge.
	ErrUnknownJointType = errors.New("scene: unknown joint type")
)

// Scene is a parsed scene document.
type Scene struct {
	// Path is the file the scene was loaded from, empty for parsed scenes.
	Path string
	// Prefab is the path of the prefab scene, relative to this scene.
	Prefab string
	Bodies []BodyDef
	Joints []*JointDef
}

// BodyDef describes a box body.
type BodyDef struct {
	Name     string     `yaml:"name"`
	Static   bool       `yaml:"static,omitempty"`
	Mass     float64    `yaml:"mass,omitempty"`
	Size     [2]float64 `yaml:"size,flow"`
	Position [2]float64 `yaml:"position,flow"`
	Rotation float64    `yaml:"rotation,omitempty"` // degrees
}

// JointDef is a joint in a scene. Exactly one of D6 and Hinge is set,
// matching Type.
type JointDef struct {
	Name   string
	Type   string
	Body0  string
	Body1  string // empty connects to the world
	Script string

	D6    *joint.D6Joint
	Hinge *joint.HingeJoint
}

type document struct {
	Prefab string       `yaml:"prefab,omitempty"`
	Bodies []BodyDef    `yaml:"bodies"`
	Joints []jointEntry `yaml:"joints"`
}

type jointEntry struct {
	Name           string    `yaml:"name"`
	Type           string    `yaml:"type"`
	Body0          string    `yaml:"body0"`
	Body1          string    `yaml:"body1,omitempty"`
	Anchor         []float32 `yaml:"anchor,flow,omitempty"`
	AnchorRotation []float32 `yaml:"anchor_rotation,flow,omitempty"`
	Script         string    `yaml:"script,omitempty"`
	Config         yaml.Node `yaml:"config,omitempty"`
}

// NewJointDef returns a joint of the given kind with default settings.
func NewJointDef(name, kind string) (*JointDef, error) {
	d := &JointDef{Name: name, Type: kind}
	switch kind {
	case KindD6:
		d.D6 = joint.NewD6Joint()
	case KindHinge:
		d.Hinge = joint.NewHingeJoint()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJointType, kind)
	}
	d.Base().Name = name
	return d, nil
}

// Base returns the settings shared by both kinds.
func (d *JointDef) Base() *joint.Joint {
	if d.D6 != nil {
		return &d.D6.Joint
	}
	return &d.Hinge.Joint
}

// Attach creates the native joint in s.
func (d *JointDef) Attach(s joint.Solver) error {
	if d.D6 != nil {
		return d.D6.Attach(s)
	}
	return d.Hinge.Attach(s)
}

// Detach releases the native joint.
func (d *JointDef) Detach() {
	d.Base().Detach()
}

// Serialize writes the joint config, diffed against ref when ref is of the
// same kind.
func (d *JointDef) Serialize(w *serialization.Writer, ref *JointDef) {
	if ref != nil && ref.Type != d.Type {
		ref = nil
	}
	if d.D6 != nil {
		var other *joint.D6Joint
		if ref != nil {
			other = ref.D6
		}
		d.D6.Serialize(w, other)
		return
	}
	var other *joint.HingeJoint
	if ref != nil {
		other = ref.Hinge
	}
	d.Hinge.Serialize(w, other)
}

// Deserialize reads a joint config block.
func (d *JointDef) Deserialize(r *serialization.Reader) {
	if d.D6 != nil {
		d.D6.Deserialize(r)
		return
	}
	d.Hinge.Deserialize(r)
}

// CopyFrom applies other's settings through the joint setters, so a live
// joint receives the changes. Kinds must match.
func (d *JointDef) CopyFrom(other *JointDef) {
	if d.D6 != nil && other.D6 != nil {
		d.D6.CopyFrom(other.D6)
	}
	if d.Hinge != nil && other.Hinge != nil {
		d.Hinge.CopyFrom(other.Hinge)
	}
	d.Script = other.Script
}

// Joint returns the joint with the given name, or nil.
func (s *Scene) Joint(name string) *JointDef {
	for _, d := range s.Joints {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// BodyDef returns the body with the given name.
func (s *Scene) BodyDef(name string) (BodyDef, bool) {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyDef{}, false
}

// Load reads a scene file and its prefab chain.
func Load(path string) (*Scene, error) {
	return load(path, 0)
}

func load(path string, depth int) (*Scene, error) {
	if depth > maxPrefabDepth {
		return nil, fmt.Errorf("loading %s: prefab chain deeper than %d", path, maxPrefabDepth)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}

	var head struct {
		Prefab string `yaml:"prefab"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var prefab *Scene
	if head.Prefab != "" {
		prefab, err = load(PrefabPath(path, head.Prefab), depth+1)
		if err != nil {
			return nil, err
		}
	}

	return parseFile(path, data, prefab)
}

// LoadWithPrefab reads a scene file and reads its joints on top of prefab
// instead of the prefab the file names.
func LoadWithPrefab(path string, prefab *Scene) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	return parseFile(path, data, prefab)
}

func parseFile(path string, data []byte, prefab *Scene) (*Scene, error) {
	s, err := Parse(data, prefab)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// PrefabPath resolves a prefab reference relative to the scene at path.
func PrefabPath(path, prefab string) string {
	if filepath.IsAbs(prefab) {
		return prefab
	}
	return filepath.Join(filepath.Dir(path), prefab)
}

// PrefabRef returns the reference to prefabPath written into a scene saved
// at path. It is the inverse of PrefabPath.
func PrefabRef(path, prefabPath string) string {
	from, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return prefabPath
	}
	to, err := filepath.Abs(prefabPath)
	if err != nil {
		return prefabPath
	}
	rel, err := filepath.Rel(from, to)
	if err != nil {
		return to
	}
	return filepath.ToSlash(rel)
}

// Parse decodes a scene document. Joint config blocks are read on top of the
// matching joint in prefab, when there is one.
func Parse(data []byte, prefab *Scene) (*Scene, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	s := &Scene{Prefab: doc.Prefab, Bodies: doc.Bodies}
	if len(s.Bodies) == 0 && prefab != nil {
		s.Bodies = append([]BodyDef(nil), prefab.Bodies...)
	}
	bodies := make(map[string]bool, len(s.Bodies))
	for i, b := range s.Bodies {
		if b.Name == "" {
			return nil, fmt.Errorf("body %d: missing name", i)
		}
		if bodies[b.Name] {
			return nil, fmt.Errorf("body %q: duplicate name", b.Name)
		}
		bodies[b.Name] = true
	}

	for i := range doc.Joints {
		e := &doc.Joints[i]
		if e.Name == "" {
			return nil, fmt.Errorf("joint %d: missing name", i)
		}
		if s.Joint(e.Name) != nil {
			return nil, fmt.Errorf("joint %q: duplicate name", e.Name)
		}
		d, err := parseJoint(e, prefab)
		if err != nil {
			return nil, fmt.Errorf("joint %q: %w", e.Name, err)
		}
		if !bodies[d.Body0] {
			return nil, fmt.Errorf("joint %q: %w %q", e.Name, ErrUnknownBody, d.Body0)
		}
		if d.Body1 != "" && !bodies[d.Body1] {
			return nil, fmt.Errorf("joint %q: %w %q", e.Name, ErrUnknownBody, d.Body1)
		}
		s.Joints = append(s.Joints, d)
	}
	return s, nil
}

func parseJoint(e *jointEntry, prefab *Scene) (*JointDef, error) {
	var ref *JointDef
	if prefab != nil {
		ref = prefab.Joint(e.Name)
	}
	// An entry without a type overrides the prefab joint of the same name.
	if e.Type == "" && ref != nil {
		e.Type, e.Body0, e.Body1 = ref.Type, ref.Body0, ref.Body1
	}

	d, err := NewJointDef(e.Name, e.Type)
	if err != nil {
		return nil, err
	}
	d.Body0 = e.Body0
	d.Body1 = e.Body1

	if ref != nil && ref.Type == d.Type {
		d.CopyFrom(ref)
	}
	if e.Script != "" {
		d.Script = e.Script
	}

	base := d.Base()
	pose := base.LocalPose()
	if e.Anchor != nil {
		if len(e.Anchor) != 3 {
			return nil, fmt.Errorf("anchor: expected 3 numbers, got %d", len(e.Anchor))
		}
		pose.Position = math.Vec3{X: e.Anchor[0], Y: e.Anchor[1], Z: e.Anchor[2]}
	}
	if e.AnchorRotation != nil {
		if len(e.AnchorRotation) != 4 {
			return nil, fmt.Errorf("anchor_rotation: expected 4 numbers, got %d", len(e.AnchorRotation))
		}
		r := e.AnchorRotation
		pose.Orientation = math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize()
	}
	base.SetLocalPose(pose)

	if e.Config.Kind != 0 && e.Config.ShortTag() != "!!null" {
		r, err := serialization.NewReader(&e.Config)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		d.Deserialize(r)
		if r.Err() != nil {
			return nil, fmt.Errorf("config: %w", r.Err())
		}
	}
	return d, nil
}
