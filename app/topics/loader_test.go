package topics

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTopicsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "topics.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write topics file: %v", err)
	}
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeTopicsFile(t, `
regions:
  nz:
    name: "New Zealand"
    subregions:
      - wellington
      - auckland
    topics:
      - rma
      - it
  au:
    name: "Australia"
    topics:
      - it
`)

	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Failed to load topics config: %v", err)
	}

	if len(config.Regions) != 2 {
		t.Fatalf("Expected 2 regions, got %d", len(config.Regions))
	}

	nz, ok := config.Regions["nz"]
	if !ok {
		t.Fatal("Expected region 'nz'")
	}
	if nz.Name != "New Zealand" {
		t.Errorf("Expected region name 'New Zealand', got '%s'", nz.Name)
	}
	if len(nz.Subregions) != 2 || len(nz.Topics) != 2 {
		t.Errorf("Unexpected nz region: %+v", nz)
	}

	au := config.Regions["au"]
	if au.Subregions != nil {
		t.Errorf("Expected no subregions for au, got %v", au.Subregions)
	}
}

func TestLoader_LoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yml")).Load()
	if err == nil {
		t.Error("Expected error for missing topics file")
	}
}

func TestLoader_LoadInvalidYAML(t *testing.T) {
	path := writeTopicsFile(t, "regions: [not a map")

	_, err := NewLoader(path).Load()
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoader_ValidateEmptyRegions(t *testing.T) {
	path := writeTopicsFile(t, "regions: {}")

	_, err := NewLoader(path).Load()
	if err == nil {
		t.Error("Expected error for config without regions")
	}
}

func TestLoader_ValidateRegionWithoutTopics(t *testing.T) {
	path := writeTopicsFile(t, `
regions:
  nz:
    name: "New Zealand"
    topics: []
`)

	_, err := NewLoader(path).Load()
	if err == nil {
		t.Error("Expected error for region without topics")
	}
}

func TestLoader_ValidateRegionWithoutName(t *testing.T) {
	path := writeTopicsFile(t, `
regions:
  nz:
    topics:
      - rma
`)

	_, err := NewLoader(path).Load()
	if err == nil {
		t.Error("Expected error for region without name")
	}
}
