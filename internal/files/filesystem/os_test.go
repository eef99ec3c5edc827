package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Glob_MatchesAndSorts(t *testing.T) {
	dir := t.TempDir()

	// Create out of lexical order to prove Glob sorts
	os.WriteFile(filepath.Join(dir, "cis2019.dta"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "cis2014.dta"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644)

	// Nested files must not match a separator-free pattern
	sub := filepath.Join(dir, "archive")
	os.Mkdir(sub, 0755)
	os.WriteFile(filepath.Join(sub, "cis2012.dta"), []byte("x"), 0644)

	fs := NewOSFileSystem()

	matches, err := fs.Glob(dir, "*.dta")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "cis2014.dta"),
		filepath.Join(dir, "cis2019.dta"),
	}
	if len(matches) != len(want) {
		t.Fatalf("Glob() returned %d matches, want %d: %v", len(matches), len(want), matches)
	}
	for i := range want {
		if matches[i] != want[i] {
			t.Errorf("Glob()[%d] = %q, want %q", i, matches[i], want[i])
		}
	}
}

func TestOSFileSystem_Glob_ExcludesDirectories(t *testing.T) {
	dir := t.TempDir()

	// A directory whose name matches the pattern must be skipped
	os.Mkdir(filepath.Join(dir, "notafile.dta"), 0755)
	os.WriteFile(filepath.Join(dir, "real.dta"), []byte("x"), 0644)

	fs := NewOSFileSystem()

	matches, err := fs.Glob(dir, "*.dta")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Glob() returned %d matches, want 1: %v", len(matches), matches)
	}
	if matches[0] != filepath.Join(dir, "real.dta") {
		t.Errorf("Glob()[0] = %q, want %q", matches[0], filepath.Join(dir, "real.dta"))
	}
}

func TestOSFileSystem_Glob_NoMatches(t *testing.T) {
	fs := NewOSFileSystem()

	matches, err := fs.Glob(t.TempDir(), "*.dta")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Glob() on empty dir = %v, want no matches", matches)
	}
}

func TestOSFileSystem_Glob_BadPattern(t *testing.T) {
	fs := NewOSFileSystem()

	_, err := fs.Glob(t.TempDir(), "[unclosed")
	if err == nil {
		t.Error("Glob(malformed pattern) should return error")
	}
}

func TestOSFileSystem_ReadFile(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "survey.dta")
	expected := "raw bytes"
	os.WriteFile(filePath, []byte(expected), 0644)

	fs := NewOSFileSystem()

	data, err := fs.ReadFile(filePath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != expected {
		t.Errorf("ReadFile() = %q, want %q", string(data), expected)
	}
}

func TestOSFileSystem_ReadFile_Nonexistent(t *testing.T) {
	fs := NewOSFileSystem()

	_, err := fs.ReadFile(filepath.Join(t.TempDir(), "nope.dta"))
	if err == nil {
		t.Error("ReadFile(nonexistent) should return error")
	}
}

func TestOSFileSystem_Stat_File(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "survey.dta")
	os.WriteFile(filePath, []byte("x"), 0644)

	fs := NewOSFileSystem()

	info, err := fs.Stat(filePath)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.IsDir() {
		t.Error("Stat(file) should not be a directory")
	}
	if info.Name() != "survey.dta" {
		t.Errorf("Stat().Name() = %q, want %q", info.Name(), "survey.dta")
	}
}

func TestOSFileSystem_Stat_Directory(t *testing.T) {
	dir := t.TempDir()
	fs := NewOSFileSystem()

	info, err := fs.Stat(dir)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !info.IsDir() {
		t.Error("Stat(dir) should be a directory")
	}
}

func TestOSFileSystem_Stat_Nonexistent(t *testing.T) {
	fs := NewOSFileSystem()

	_, err := fs.Stat(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("Stat(nonexistent) should return error")
	}
}
