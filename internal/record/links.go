package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Links is a list of @id references. The portal embeds linked objects to
// different depths, so each element may arrive as a bare @id string or as
// an object carrying "@id".
type Links []string

type linkedObject struct {
	ID string `json:"@id"`
}

// UnmarshalJSON accepts strings, objects with "@id", or a mix of both.
func (l *Links) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding links: %w", err)
	}

	out := make(Links, 0, len(raw))
	for i, item := range raw {
		id, err := decodeLink(item)
		if err != nil {
			return fmt.Errorf("decoding link %d: %w", i, err)
		}
		out = append(out, id)
	}
	*l = out
	return nil
}

func decodeLink(item json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(item, &id); err == nil {
		return id, nil
	}
	var obj linkedObject
	if err := json.Unmarshal(item, &obj); err != nil {
		return "", err
	}
	if obj.ID == "" {
		return "", fmt.Errorf("linked object has no @id")
	}
	return obj.ID, nil
}

// Contains reports whether id is in the list.
func (l Links) Contains(id string) bool {
	for _, x := range l {
		if x == id {
			return true
		}
	}
	return false
}

// Sorted returns a sorted copy of the list.
func (l Links) Sorted() []string {
	out := make([]string, len(l))
	copy(out, l)
	sort.Strings(out)
	return out
}

// ElementsDatasets holds cloning or mappings datasets. The portal sends a
// single dataset or a list, each embedded or as a bare @id.
type ElementsDatasets []ElementsDataset

// UnmarshalJSON accepts a single dataset or a list of them.
func (e *ElementsDatasets) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*e = nil
		return nil
	}
	var raw []json.RawMessage
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("decoding elements datasets: %w", err)
		}
	} else {
		raw = []json.RawMessage{trimmed}
	}

	out := make(ElementsDatasets, 0, len(raw))
	for i, item := range raw {
		var id string
		if err := json.Unmarshal(item, &id); err == nil {
			out = append(out, ElementsDataset{ID: id})
			continue
		}
		var ed ElementsDataset
		if err := json.Unmarshal(item, &ed); err != nil {
			return fmt.Errorf("decoding elements dataset %d: %w", i, err)
		}
		out = append(out, ed)
	}
	*e = out
	return nil
}

// UnmarshalJSON accepts either an embedded step version or its @id.
func (s *StepVersion) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*s = StepVersion{ID: id}
		return nil
	}
	type plain StepVersion
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding analysis_step_version: %w", err)
	}
	*s = StepVersion(v)
	return nil
}

// UnmarshalJSON accepts either an embedded quality metric or its @id.
func (q *QualityMetric) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*q = QualityMetric{ID: id}
		return nil
	}
	type plain QualityMetric
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding quality metric: %w", err)
	}
	*q = QualityMetric(v)
	return nil
}

// Visualize maps an assembly to the genome browsers that can show it.
// Browsers arrive either as a list of names or as an object keyed by name.
type Visualize map[string][]string

// UnmarshalJSON accepts both browser encodings.
func (v *Visualize) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding visualize: %w", err)
	}

	out := make(Visualize, len(raw))
	for assembly, item := range raw {
		var names []string
		if err := json.Unmarshal(item, &names); err == nil {
			out[assembly] = names
			continue
		}
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(item, &keyed); err != nil {
			return fmt.Errorf("decoding browsers for %s: %w", assembly, err)
		}
		for name := range keyed {
			names = append(names, name)
		}
		sort.Strings(names)
		out[assembly] = names
	}
	*v = out
	return nil
}
