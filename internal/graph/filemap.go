package graph

import (
	"encoding/json"

	"github.com/encoded/filegallery/internal/record"
)

// fileMap maps file ids to files, possibly nil, remembering insertion order.
// Re-setting a key keeps its position.
type fileMap struct {
	ids   []string
	files map[string]*record.File
}

func newFileMap() *fileMap {
	return &fileMap{files: make(map[string]*record.File)}
}

func (m *fileMap) set(id string, f *record.File) {
	if _, ok := m.files[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.files[id] = f
}

func (m *fileMap) del(id string) {
	if _, ok := m.files[id]; !ok {
		return
	}
	delete(m.files, id)
	for i, x := range m.ids {
		if x == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
}

// Keys returns the ids in insertion order.
func (m *fileMap) Keys() []string {
	return m.ids
}

// Get returns the file for id, nil when absent or stored as nil.
func (m *fileMap) Get(id string) *record.File {
	return m.files[id]
}

// Has reports whether id is a key.
func (m *fileMap) Has(id string) bool {
	_, ok := m.files[id]
	return ok
}

// Len returns the number of keys.
func (m *fileMap) Len() int {
	return len(m.ids)
}

// MarshalJSON encodes the map as id to file @id, or null.
func (m *fileMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, len(m.ids))
	for _, id := range m.ids {
		if f := m.files[id]; f != nil {
			child := f.ID
			out[id] = &child
		} else {
			out[id] = nil
		}
	}
	return json.Marshal(out)
}

// children maps a parent file id to the distinct files derived from it,
// remembering insertion order of parents.
type children struct {
	ids  []string
	kids map[string][]*record.File
}

func newChildren() *children {
	return &children{kids: make(map[string][]*record.File)}
}

func (c *children) add(parent string, child *record.File) {
	list, ok := c.kids[parent]
	if !ok {
		c.ids = append(c.ids, parent)
	}
	for _, k := range list {
		if k.ID == child.ID {
			return
		}
	}
	c.kids[parent] = append(list, child)
}

func (c *children) has(parent string) bool {
	_, ok := c.kids[parent]
	return ok
}

func (c *children) get(parent string) []*record.File {
	return c.kids[parent]
}
