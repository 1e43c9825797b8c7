package blob

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestDriversStayBehindFactories checks that production code names concrete
// drivers only from their factory packages. Everything else goes through
// blob.Open and collection.Open. Tests may construct drivers directly.
func TestDriversStayBehindFactories(t *testing.T) {
	boundaries := []struct {
		infra   string
		allowed []string
	}{
		{infra: "rentalcore/internal/infra/blob", allowed: []string{"rentalcore/internal/blob", "rentalcore/internal/infra"}},
		{infra: "rentalcore/internal/infra/persistence", allowed: []string{"rentalcore/internal/collection", "rentalcore/internal/infra"}},
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: false}
	pkgs, err := packages.Load(cfg, "rentalcore/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var violations []string
	for _, pkg := range pkgs {
		for _, b := range boundaries {
			if underAny(pkg.PkgPath, b.allowed) {
				continue
			}
			for importPath := range pkg.Imports {
				if under(importPath, b.infra) {
					violations = append(violations, pkg.PkgPath+": "+importPath)
				}
			}
		}
	}
	if len(violations) > 0 {
		sort.Strings(violations)
		t.Fatalf("drivers imported outside their factories:\n%s", strings.Join(violations, "\n"))
	}
}

func under(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func underAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if under(path, p) {
			return true
		}
	}
	return false
}
