// ABOUTME: End-to-end tests that run CLI commands against a temporary database
// ABOUTME: Uses the offline engine so no network or API keys are needed
package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupNova(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nova.db")
	t.Setenv("NOVA_DB_PATH", dbPath)
	t.Setenv("NOVA_ENGINE", "fallback")
	t.Setenv("NOVA_OFFLINE", "true")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	return dbPath
}

func runNova(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return output.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runNova(t, args...)
	if err != nil {
		t.Fatalf("nova %s error = %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestRememberThenFacts(t *testing.T) {
	setupNova(t)

	out := mustRun(t, "remember", "--subject", "Mom", "Birthday", "May", "3")
	if !strings.Contains(out, "Remembered mom's birthday = May 3") {
		t.Errorf("remember output = %q", out)
	}

	out = mustRun(t, "facts", "--subject", "mom", "--format", "json")
	var facts []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &facts); err != nil {
		t.Fatalf("facts JSON error = %v\n%s", err, out)
	}
	if len(facts) != 1 || facts[0]["value"] != "May 3" {
		t.Errorf("facts = %v", facts)
	}

	out = mustRun(t, "facts")
	if !strings.Contains(out, "No facts found") {
		t.Errorf("facts for me = %q, want none", out)
	}
}

func TestRemember_InvalidValue(t *testing.T) {
	setupNova(t)

	if _, err := runNova(t, "remember", "color", " "); err == nil {
		t.Error("expected an error for an empty value")
	}
}

func TestFacts_InvalidLimit(t *testing.T) {
	setupNova(t)

	if _, err := runNova(t, "facts", "--limit", "0"); err == nil {
		t.Error("expected an error for --limit 0")
	}
}

func TestSayRoundTrip(t *testing.T) {
	setupNova(t)

	out := mustRun(t, "say", "my sister's name is Priya")
	if !strings.Contains(out, "Priya") {
		t.Errorf("say (remember) = %q", out)
	}

	out = mustRun(t, "say", "what's my sister's name")
	if !strings.Contains(out, "Priya") {
		t.Errorf("say (query) = %q", out)
	}

	out = mustRun(t, "history", "--format", "json")
	var turns []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &turns); err != nil {
		t.Fatalf("history JSON error = %v\n%s", err, out)
	}
	if len(turns) != 2 {
		t.Errorf("history has %d turns, want 2", len(turns))
	}
}

func TestSay_JSON(t *testing.T) {
	setupNova(t)

	out := mustRun(t, "say", "--format", "json", "go online")
	var reply map[string]interface{}
	if err := json.Unmarshal([]byte(out), &reply); err != nil {
		t.Fatalf("say JSON error = %v\n%s", err, out)
	}
	if reply["kind"] != "toggle" {
		t.Errorf("reply kind = %v, want toggle", reply["kind"])
	}
}

func TestChat_REPL(t *testing.T) {
	setupNova(t)

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetIn(strings.NewReader("my name is Ana\n\nwhat's my name\nexit\nnever reached\n"))
	cmd.SetArgs([]string{"--quiet", "chat"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("chat error = %v", err)
	}

	out := output.String()
	if !strings.Contains(out, "nova> Nice to meet you, Ana") {
		t.Errorf("chat output missing greeting:\n%s", out)
	}
	if !strings.Contains(out, "nova> Your name: Ana") {
		t.Errorf("chat output missing recall:\n%s", out)
	}
	if strings.Contains(out, "never reached") {
		t.Error("chat kept reading after exit")
	}
}

func TestParseAndActivity(t *testing.T) {
	setupNova(t)

	out := mustRun(t, "parse", "--record", "remind me to pay rent tomorrow")
	var result ParseResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parse JSON error = %v\n%s", err, out)
	}
	if result.Task == nil || result.Task.Kind != "REMINDER" {
		t.Fatalf("parse task = %+v", result.Task)
	}
	if result.Task.When != "tomorrow" {
		t.Errorf("task when = %q, want tomorrow", result.Task.When)
	}

	out = mustRun(t, "activity", "--format", "json")
	var activities []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &activities); err != nil {
		t.Fatalf("activity JSON error = %v\n%s", err, out)
	}
	if len(activities) != 1 || activities[0]["kind"] != "reminder" {
		t.Errorf("activities = %v", activities)
	}
}

func TestSeed(t *testing.T) {
	setupNova(t)

	out := mustRun(t, "seed")
	if !strings.Contains(out, "Seeded") {
		t.Errorf("first seed = %q", out)
	}
	out = mustRun(t, "seed")
	if !strings.Contains(out, "already present") {
		t.Errorf("second seed = %q", out)
	}
}

func TestExport(t *testing.T) {
	setupNova(t)
	mustRun(t, "remember", "city", "Lisbon")

	out := mustRun(t, "export")
	if !strings.Contains(out, "tool: nova") || !strings.Contains(out, "Lisbon") {
		t.Errorf("yaml export = %q", out)
	}

	path := filepath.Join(t.TempDir(), "nova.md")
	mustRun(t, "export", "md", "--output", path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "Lisbon") {
		t.Errorf("markdown export missing fact:\n%s", data)
	}

	if _, err := runNova(t, "export", "csv"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestSuggest(t *testing.T) {
	setupNova(t)

	out := mustRun(t, "suggest", "--format", "json", "--max", "2", "are we still on for dinner?")
	var suggestions []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &suggestions); err != nil {
		t.Fatalf("suggest JSON error = %v\n%s", err, out)
	}
	if len(suggestions) > 2 {
		t.Errorf("got %d suggestions, want at most 2", len(suggestions))
	}

	if _, err := runNova(t, "suggest", "--max", "0"); err == nil {
		t.Error("expected an error for --max 0")
	}
}

func TestInvalidConfig(t *testing.T) {
	setupNova(t)
	t.Setenv("NOVA_ENGINE", "carrier-pigeon")

	if _, err := runNova(t, "facts"); err == nil {
		t.Error("expected a configuration error")
	}
}
