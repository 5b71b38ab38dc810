package sema

import (
	"sort"
	"strings"

	"github.com/asthra-lang/asthra-core/internal/ast"
	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/types"
)

// checkExhaustiveness implements spec.md §4.3's exhaustiveness rule: a match
// on an enum must cover every variant unless a wildcard (or a bare
// identifier pattern, which also catches everything) is present. Missing
// variants are named in the diagnostic, matching scenario 5 of spec.md §8
// ("non-exhaustive match: missing variant C").
//
// A scrutinee that isn't an enum (or is already an Error placeholder) has no
// variant set to check against, so every match on it is vacuously
// exhaustive — the analyzer doesn't invent a coverage rule for types that
// don't declare a closed variant set.
func (a *Analyzer) checkExhaustiveness(n *ast.MatchExpr, scrutinee types.Type) {
	if scrutinee.Kind() != types.KindEnum {
		return
	}

	covered := make(map[string]bool)
	for _, arm := range n.Arms {
		switch p := arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.IdentPattern:
			return
		case *ast.VariantPattern:
			if arm.Guard == nil {
				covered[p.Variant] = true
			}
		}
	}

	var missing []string
	for _, v := range scrutinee.Variants() {
		if !covered[v.Name] {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) == 0 {
		return
	}
	sort.Strings(missing)
	a.diags.Errorf(diag.CodeNonExhaustive, n.Span(),
		"non-exhaustive match: missing variant%s %s",
		plural(len(missing)), strings.Join(missing, ", "))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
