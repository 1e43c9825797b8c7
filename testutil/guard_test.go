package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func writeGo(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "a.go", "package tmp\nimport (\n\t\"fmt\"\n\t\"rentalcore/internal/infra/blob/s3\"\n)\nvar _ = fmt.Sprint\n")
	writeGo(t, dir, "a_test.go", "package tmp\nimport _ \"rentalcore/internal/infra/persistence/memory\"\n")
	writeGo(t, dir, "notes.txt", "import \"rentalcore/internal/infra/x\"")

	viols, err := directImportViolations(dir, InfraImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || !strings.Contains(viols[0], "a.go") {
		t.Fatalf("expected one violation from a.go, got %v", viols)
	}

	AssertNoDirectImports(t, dir, func(p string) bool { return p == "os" }, "os is not imported")
}

func TestDirectImportViolationsErrors(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "missing"), InfraImportForbidden); err == nil {
		t.Fatalf("expected error for missing dir")
	}
	dir := t.TempDir()
	writeGo(t, dir, "bad.go", "package tmp\nimport \"fmt")
	if _, err := directImportViolations(dir, InfraImportForbidden); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFailIfDirectViolations(t *testing.T) {
	rec := &recordingFatal{}
	failIfDirectViolations(rec, "reason", nil)
	if rec.msg != "" {
		t.Fatalf("unexpected failure: %s", rec.msg)
	}
	failIfDirectViolations(rec, "keep drivers behind factories", []string{"x (in a.go)"})
	if !strings.Contains(rec.msg, "keep drivers behind factories") || !strings.Contains(rec.msg, "x (in a.go)") {
		t.Fatalf("unexpected message: %s", rec.msg)
	}
}

func TestPredicates(t *testing.T) {
	cases := []struct {
		path                    string
		nonStdlib, infra, inner bool
	}{
		{"fmt", false, false, false},
		{"encoding/json", false, false, false},
		{"github.com/spf13/cobra", true, false, false},
		{"rentalcore/pkg/domain", true, false, false},
		{"rentalcore/internal/repo", true, false, true},
		{"rentalcore/internal/infra/blob/fs", true, true, true},
	}
	for _, tc := range cases {
		if got := NonStdlibImport(tc.path); got != tc.nonStdlib {
			t.Errorf("NonStdlibImport(%q) = %v", tc.path, got)
		}
		if got := InfraImportForbidden(tc.path); got != tc.infra {
			t.Errorf("InfraImportForbidden(%q) = %v", tc.path, got)
		}
		if got := InternalImportForbidden(tc.path); got != tc.inner {
			t.Errorf("InternalImportForbidden(%q) = %v", tc.path, got)
		}
	}
}
