package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadStoplist(t *testing.T) {
	// Create temp file
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "stoplist.yaml")

	content := `terms:
  - enzyme
  - protein
  - study
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("Failed to load stoplist: %v", err)
	}

	if len(sl.Terms) != 3 {
		t.Errorf("Expected 3 terms, got %d", len(sl.Terms))
	}
	if sl.Replace {
		t.Error("Replace should default to false")
	}

	expected := map[string]bool{"enzyme": true, "protein": true, "study": true}
	for _, term := range sl.Terms {
		if !expected[term] {
			t.Errorf("Unexpected term: %s", term)
		}
	}
}

func TestLoadStoplistMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("terms: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadStoplist(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadStoplistMissing(t *testing.T) {
	if _, err := LoadStoplist("/nonexistent/stoplist.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
