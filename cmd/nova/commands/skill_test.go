// ABOUTME: Tests for nova install-skill against a temporary HOME
// ABOUTME: Checks the embedded skill names Nova's MCP tools and the prompt is honored
package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func skillPathIn(home string) string {
	return filepath.Join(home, ".claude", "skills", "nova", "SKILL.md")
}

func TestInstallSkill_WritesEmbeddedSkill(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	out := mustRun(t, "install-skill", "--yes")
	if !strings.Contains(out, "Installed Nova skill successfully") {
		t.Errorf("install-skill output = %q", out)
	}

	content, err := os.ReadFile(skillPathIn(home))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	embedded, _ := skillFS.ReadFile("skill/SKILL.md")
	if string(content) != string(embedded) {
		t.Error("installed SKILL.md differs from the embedded copy")
	}
	for _, tool := range []string{"mcp__nova__chat", "mcp__nova__remember_fact", "mcp__nova__query_facts", "mcp__nova__parse_task"} {
		if !strings.Contains(string(content), tool) {
			t.Errorf("SKILL.md does not mention %s", tool)
		}
	}
}

func TestInstallSkill_DeclinedPromptWritesNothing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cmd := NewRootCmd()
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetArgs([]string{"install-skill"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("install-skill error = %v", err)
	}

	if !strings.Contains(out.String(), "Installation cancelled") {
		t.Errorf("output = %q, want cancellation", out.String())
	}
	if _, err := os.Stat(skillPathIn(home)); !os.IsNotExist(err) {
		t.Error("SKILL.md should not exist after declining")
	}
}

func TestInstallSkill_ReinstallWarnsAndOverwrites(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := skillPathIn(home)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	out := mustRun(t, "install-skill", "-y")
	if !strings.Contains(out, "already exists and will be overwritten") {
		t.Errorf("output = %q, want overwrite note", out)
	}
	content, _ := os.ReadFile(path)
	if string(content) == "stale" {
		t.Error("stale SKILL.md was not replaced")
	}
}
