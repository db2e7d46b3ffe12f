package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTasksFileDefault(t *testing.T) {
	t.Setenv("TODO_FILE", "")
	t.Setenv("HOME", t.TempDir())

	if got := TasksFile(); got != DefaultFile {
		t.Fatalf("got %q, want %q", got, DefaultFile)
	}
}

func TestTasksFileEnvWins(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "file: /elsewhere/tasks.json\n")
	t.Setenv("TODO_FILE", "/env/tasks.json")

	if got := TasksFile(); got != "/env/tasks.json" {
		t.Fatalf("got %q, want env path", got)
	}
}

func TestTasksFileFromConfig(t *testing.T) {
	t.Setenv("TODO_FILE", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "file: /data/tasks.json\n")

	if got := TasksFile(); got != "/data/tasks.json" {
		t.Fatalf("got %q, want config path", got)
	}
}

func TestTasksFileExpandsHome(t *testing.T) {
	t.Setenv("TODO_FILE", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "file: ~/todo/tasks.json\n")

	want := filepath.Join(home, "todo", "tasks.json")
	if got := TasksFile(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTasksFileMalformedConfigFallsBack(t *testing.T) {
	t.Setenv("TODO_FILE", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "file: [not, a, string\n")

	if got := TasksFile(); got != DefaultFile {
		t.Fatalf("got %q, want default on malformed config", got)
	}
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".config", configDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
