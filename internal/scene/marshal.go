package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/jointrig/internal/serialization"
)

// Marshal encodes the scene with every joint setting written out. The
// prefab reference is kept as is.
func (s *Scene) Marshal() ([]byte, error) {
	return s.marshal(nil, s.Prefab)
}

// MarshalDelta encodes the scene with joint settings diffed against the
// joints of prefab with the same name and kind. Joints missing from prefab
// are written in full. prefabRef is written as the document's prefab and
// must lead back to prefab when the document is loaded.
func (s *Scene) MarshalDelta(prefab *Scene, prefabRef string) ([]byte, error) {
	if prefab == nil || prefabRef == "" {
		return nil, fmt.Errorf("marshal delta: no prefab")
	}
	return s.marshal(prefab, prefabRef)
}

func (s *Scene) marshal(prefab *Scene, prefabRef string) ([]byte, error) {
	doc := document{
		Prefab: prefabRef,
		Bodies: s.Bodies,
		Joints: make([]jointEntry, 0, len(s.Joints)),
	}
	for _, d := range s.Joints {
		e := jointEntry{
			Name:   d.Name,
			Type:   d.Type,
			Body0:  d.Body0,
			Body1:  d.Body1,
			Script: d.Script,
		}

		pose := d.Base().LocalPose()
		var ref *JointDef
		if prefab != nil {
			if ref = prefab.Joint(d.Name); ref != nil && ref.Type != d.Type {
				ref = nil
			}
		}
		if ref == nil || ref.Base().LocalPose().Position != pose.Position {
			e.Anchor = []float32{pose.Position.X, pose.Position.Y, pose.Position.Z}
		}
		q := pose.Orientation
		if (ref == nil && !q.IsIdentity()) || (ref != nil && ref.Base().LocalPose().Orientation != q) {
			e.AnchorRotation = []float32{q.X, q.Y, q.Z, q.W}
		}
		if ref != nil && ref.Script == d.Script {
			e.Script = ""
		}

		w := serialization.NewWriter()
		d.Serialize(w, ref)
		if err := w.Err(); err != nil {
			return nil, fmt.Errorf("joint %q: %w", d.Name, err)
		}
		e.Config = *w.Node()
		doc.Joints = append(doc.Joints, e)
	}
	return yaml.Marshal(&doc)
}

// Save writes the full scene to path. A prefab reference is rewritten
// relative to path when the scene was loaded from a file.
func (s *Scene) Save(path string) error {
	ref := s.Prefab
	if ref != "" && s.Path != "" {
		ref = PrefabRef(path, PrefabPath(s.Path, s.Prefab))
	}
	data, err := s.marshal(nil, ref)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// SaveDelta writes the scene to path as overrides of prefab, which was
// loaded from prefabPath.
func (s *Scene) SaveDelta(path string, prefab *Scene, prefabPath string) error {
	data, err := s.MarshalDelta(prefab, PrefabRef(path, prefabPath))
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating scene directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	return nil
}
