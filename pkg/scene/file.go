package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

type sceneFile struct {
	Frame     int                   `json:"frame"`
	Active    string                `json:"active,omitempty"`
	Mode      Mode                  `json:"mode"`
	Objects   []*Object             `json:"objects"`
	Keyframes map[string][]Keyframe `json:"keyframes,omitempty"`
}

// MarshalJSON encodes the scene, including its keyframes.
func (s *Scene) MarshalJSON() ([]byte, error) {
	f := sceneFile{
		Frame:     s.frame,
		Mode:      s.mode,
		Keyframes: make(map[string][]Keyframe),
	}
	if s.active != nil {
		f.Active = s.active.Name
	}
	for _, o := range s.objects {
		f.Objects = append(f.Objects, o)
		if keys := s.Keyframes(o.Name); len(keys) > 0 {
			f.Keyframes[o.Name] = keys
		}
	}
	sort.Slice(f.Objects, func(i, j int) bool {
		return f.Objects[i].Name < f.Objects[j].Name
	})
	return json.Marshal(f)
}

// UnmarshalJSON replaces the scene with the decoded one.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var f sceneFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	for i, o := range f.Objects {
		if o == nil {
			return fmt.Errorf("object %d is null", i)
		}
	}

	*s = *New(f.Objects...)
	for _, o := range f.Objects {
		for name, b := range o.Bones {
			if b == nil {
				return fmt.Errorf("object %s: bone %s has no rotation", o.Name, name)
			}
			b.Name = name
		}
	}
	s.frame = f.Frame
	if f.Mode != "" {
		s.mode = f.Mode
	}
	if f.Active != "" {
		o, err := s.Object(f.Active)
		if err != nil {
			return fmt.Errorf("active object: %w", err)
		}
		s.active = o
	}
	for object, keys := range f.Keyframes {
		for _, k := range keys {
			s.keyframes[keyframeKey{object: object, bone: k.Bone, frame: k.Frame}] = k.Rotation
		}
	}
	return nil
}

// Load reads a scene from a JSON file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s := New()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	return s, nil
}

// Save writes the scene to a JSON file.
func (s *Scene) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
