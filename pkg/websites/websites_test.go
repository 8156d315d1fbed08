package websites

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write websites file: %v", err)
	}
	return file
}

func TestLoadRegistryYAML(t *testing.T) {
	file := writeFile(t, "websites.yaml", `
websites:
  - id: 65a1f0c2e4b0a1b2c3d4e5f6
    name: Example News
  - id: 65a1f0c2e4b0a1b2c3d4e5f7
    enabled: false
`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 websites, got %d", len(reg.All()))
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].Name != "Example News" {
		t.Fatalf("unexpected enabled websites %+v", enabled)
	}
	w, ok := reg.ByID("65a1f0c2e4b0a1b2c3d4e5f7")
	if !ok {
		t.Fatalf("expected website to be indexed")
	}
	if w.Name != w.ID {
		t.Fatalf("name should default to id, got %q", w.Name)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	file := writeFile(t, "websites.json", `{"websites":[{"id":"w1","name":"One"}]}`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("w1"); !ok {
		t.Fatalf("expected w1 to be loaded")
	}
}

func TestLoadRegistryRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"duplicate": "websites:\n  - id: w1\n  - id: w1\n",
		"missing":   "websites:\n  - name: nameless\n",
		"empty":     "websites: []\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRegistry(writeFile(t, "websites.yaml", content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
