package geo

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

var searchFolder = cases.Fold()

// SearchAttributes filters attributes whose name contains the query,
// compared with Unicode case folding so attribute search behaves the same
// for "Wärme" and "WÄRME". Results keep known-typed entries first and are
// otherwise sorted by name.
func SearchAttributes(attrs []AttributeInfo, query string) []AttributeInfo {
	folded := searchFolder.String(query)
	out := make([]AttributeInfo, 0, len(attrs))
	for _, a := range attrs {
		if folded == "" || strings.Contains(searchFolder.String(a.Name), folded) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Known() != out[j].Known() {
			return out[i].Known()
		}
		return out[i].Name < out[j].Name
	})
	return out
}
