package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestReadJSONL_NonExistentFile(t *testing.T) {
	items, err := ReadJSONL[item]("/nonexistent/path/items.jsonl")
	if err != nil {
		t.Fatalf("ReadJSONL() error = %v (should return nil for nonexistent file)", err)
	}
	if len(items) != 0 {
		t.Errorf("ReadJSONL() returned %v, want empty", items)
	}
}

func TestReadJSONL_SkipsEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	content := `{"id":"a","name":"A"}` + "\n\n" + `{"id":"b","name":"B"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := ReadJSONL[item](path)
	if err != nil {
		t.Fatalf("ReadJSONL() error = %v", err)
	}
	if len(items) != 2 || items[1].Name != "B" {
		t.Errorf("items = %+v", items)
	}
}

func TestReadJSONL_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	content := `{"id":"a"}` + "\n" + `{not json}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadJSONL[item](path)
	if err == nil || !strings.Contains(err.Error(), "parsing line 2") {
		t.Errorf("err = %v, want parsing line 2", err)
	}
}

func TestWriteJSONL_ReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	if err := WriteJSONL(path, []item{{ID: "a"}, {ID: "b"}, {ID: "c"}}); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSONL(path, []item{{ID: "z"}}); err != nil {
		t.Fatal(err)
	}

	items, err := ReadJSONL[item](path)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "z" {
		t.Errorf("items = %+v", items)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestAppendJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	for _, id := range []string{"a", "b"} {
		if err := AppendJSONL(path, item{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	items, err := ReadJSONL[item](path)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != "a" || items[1].ID != "b" {
		t.Errorf("items = %+v", items)
	}
}
