package bot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPromptsDefaults(t *testing.T) {
	ps, err := LoadPrompts("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := ps.Current()
	if p.NotFound != "No entries found!" {
		t.Errorf("not_found = %q", p.NotFound)
	}
	if p.Stored == "" || p.Error == "" {
		t.Error("default prompts incomplete")
	}
}

func TestLoadPromptsOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := "not_found: Нічого не знайдено!\nask_count: How many?\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ps, err := LoadPrompts(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := ps.Current()
	if p.NotFound != "Нічого не знайдено!" {
		t.Errorf("not_found = %q, want override", p.NotFound)
	}
	if p.AskCount != "How many?" {
		t.Errorf("ask_count = %q, want override", p.AskCount)
	}
	if p.Error != DefaultPrompts().Error {
		t.Errorf("error = %q, want default preserved", p.Error)
	}
}

func TestLoadPromptsMissingFile(t *testing.T) {
	if _, err := LoadPrompts(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("want error for missing prompts file")
	}
}

func TestLoadPromptsRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("not_found: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPrompts(path); err == nil {
		t.Fatal("want error for malformed prompts file")
	}
}
