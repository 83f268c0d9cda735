package fixer

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/benji-york/fend/internal/scanner"
)

func writeFile(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplyRewritesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "bad  \n", 0o644)

	result, err := Apply([]scanner.FileResult{
		{Path: path, RelPath: "a.txt", Fixed: []byte("bad\n")},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Changed) != 1 || len(result.Skipped) != 0 {
		t.Fatalf("result = %+v", result)
	}
	change := result.Changed[0]
	if change.BytesBefore != 6 || change.BytesAfter != 4 {
		t.Errorf("byte counts = %d -> %d", change.BytesBefore, change.BytesAfter)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "bad\n" {
		t.Errorf("file content = %q", got)
	}
}

func TestApplyPreservesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	dir := t.TempDir()
	path := writeFile(t, dir, "run.sh", "echo hi  \n", 0o755)

	if _, err := Apply([]scanner.FileResult{
		{Path: path, RelPath: "run.sh", Fixed: []byte("echo hi\n")},
	}, Options{}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestApplySkipsUntouchedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clean.txt", "ok\n", 0o644)

	_, err := Apply([]scanner.FileResult{
		{Path: path, RelPath: "clean.txt"}, // no Fixed content
	}, Options{})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "ok\n" {
		t.Errorf("clean file was modified: %q", got)
	}
}

func TestApplyMissingTargetIsSkipNotFatal(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "x  \n", 0o644)
	missing := filepath.Join(dir, "missing.txt")

	result, err := Apply([]scanner.FileResult{
		{Path: missing, RelPath: "missing.txt", Fixed: []byte("y\n")},
		{Path: good, RelPath: "good.txt", Fixed: []byte("x\n")},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Skipped) != 1 || len(result.Changed) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.Skipped[0].RelPath != "missing.txt" {
		t.Errorf("skipped = %+v", result.Skipped[0])
	}
	got, _ := os.ReadFile(good)
	if string(got) != "x\n" {
		t.Errorf("good file not rewritten: %q", got)
	}
}

func TestApplyDryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "bad  \n", 0o644)

	result, err := Apply([]scanner.FileResult{
		{Path: path, RelPath: "a.txt", Fixed: []byte("bad\n")},
	}, Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Changed) != 1 {
		t.Fatalf("result = %+v", result)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "bad  \n" {
		t.Errorf("dry run modified the file: %q", got)
	}
}

func TestApplyBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "bad  \n", 0o644)

	if _, err := Apply([]scanner.FileResult{
		{Path: path, RelPath: "a.txt", Fixed: []byte("bad\n")},
	}, Options{Backup: true}); err != nil {
		t.Fatal(err)
	}

	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != "bad  \n" {
		t.Errorf("backup content = %q", backup)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "bad\n" {
		t.Errorf("file content = %q", got)
	}
}
