package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverJavaFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "src/main/java/demo/App.java", "class App {}")
	writeFile(t, dir, "Util.java", "class Util {}")
	// Non-Java file should be ignored
	writeFile(t, dir, "readme.txt", "hello")
	// Hidden file should be ignored
	writeFile(t, dir, ".Hidden.java", "class Hidden {}")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), paths)
	}

	// Should be sorted
	if entries[0].Path != "Util.java" {
		t.Errorf("entry 0: got %q", entries[0].Path)
	}
	if entries[1].Path != filepath.Join("src", "main", "java", "demo", "App.java") {
		t.Errorf("entry 1: got %q", entries[1].Path)
	}

	for _, e := range entries {
		if e.Language != "java" {
			t.Errorf("entry %q: language = %q, want java", e.Path, e.Language)
		}
	}
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "Main.java", "class Main {}")
	writeFile(t, dir, "target/generated/Gen.java", "class Gen {}")
	writeFile(t, dir, "build/Out.java", "class Out {}")
	writeFile(t, dir, ".hidden/Secret.java", "class Secret {}")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != "Main.java" {
		t.Errorf("expected Main.java, got %q", entries[0].Path)
	}
}

func TestDiscoverExclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "api/Service.java", "class Service {}")
	writeFile(t, dir, "gen/Model.java", "class Model {}")
	writeFile(t, dir, "api/Dto.java", "class Dto {}")

	entries, err := Files(dir, Options{Exclude: []string{"gen/", "*Dto.java"}})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != filepath.Join("api", "Service.java") {
		t.Fatalf("entries = %v", entries)
	}
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "legacy/\n")
	writeFile(t, dir, "Keep.java", "class Keep {}")
	writeFile(t, dir, "legacy/Old.java", "class Old {}")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "Keep.java" {
		t.Fatalf("entries = %v", entries)
	}
}

func TestDiscoverTestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "src/main/java/Foo.java", "class Foo {}")
	writeFile(t, dir, "src/test/java/FooTest.java", "class FooTest {}")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected test sources skipped, got %v", entries)
	}

	entries, err = Files(dir, Options{IncludeTests: true})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries with IncludeTests, got %v", entries)
	}
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "Real.java", "class Real {}")

	// Create symlink
	err := os.Symlink(filepath.Join(dir, "Real.java"), filepath.Join(dir, "Link.java"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (no symlink), got %d", len(entries))
	}
	if entries[0].Path != "Real.java" {
		t.Errorf("expected Real.java, got %q", entries[0].Path)
	}
}

func TestIsTestFile(t *testing.T) {
	t.Parallel()
	cases := []struct {
		path string
		want bool
	}{
		// Test directory components
		{"src/test/java/demo/FooTest.java", true},
		{"src/test/java/demo/Fixtures.java", true},
		{"module/src/test/java/Helper.java", true},
		{"tests/Smoke.java", true},
		// Filename patterns
		{"src/main/java/FooTest.java", true},
		{"FooTests.java", true},
		{"DatabaseIT.java", true},
		// Production files
		{"src/main/java/demo/Foo.java", false},
		{"src/main/java/test/Foo.java", false}, // package named test
		{"Test.java", false},
		{"Testing.java", false},
		{"Submit.java", false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			got := IsTestFile(tc.path)
			if got != tc.want {
				t.Errorf("IsTestFile(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
