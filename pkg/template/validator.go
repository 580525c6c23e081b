package template

import (
	"fmt"
	"strconv"

	"mercator-hq/saturn/pkg/document"
)

// Validate statically checks a template document and returns every finding.
// A template that passes validation can still fail at transform time against
// a particular source (missing fields, spread length mismatch); validation
// covers only what is decidable from the template alone.
func Validate(tmpl document.Value) *ErrorList {
	el := NewErrorList()
	validateNode(tmpl, "", nil, el)
	return el
}

// validateNode walks one template node. spreads points at the spread counter
// of the nearest enclosing array conversion, or is nil outside any
// conversion: spread discovery is scoped to the nearest conversion only.
func validateNode(v document.Value, path string, spreads *int, el *ErrorList) {
	switch v.Kind {
	case document.KindMapping:
		for _, e := range v.Entries() {
			entryPath := path + "/" + e.Key

			dec, err := ParseKey(e.Key)
			if err != nil {
				el.AddError(KindSyntax, entryPath, err.Error())
				continue
			}

			if dec.Spread {
				if spreads == nil {
					el.Add(&Error{
						Kind:       KindStructure,
						Severity:   SeverityError,
						Path:       entryPath,
						Message:    fmt.Sprintf("spread entry %q is not inside an array conversion", e.Key),
						Suggestion: fmt.Sprintf("wrap an enclosing object key as \"[name]\" or rename the entry to %q", dec.Name),
					})
				} else {
					*spreads++
				}
				if e.Value.Kind != document.KindString {
					el.AddWarning(KindStructure, entryPath,
						fmt.Sprintf("spread entry %q should be a path expression resolving to a sequence, got %s", e.Key, e.Value.Kind))
				} else if kind, _ := ParseLeaf(e.Value.StringValue()); kind != LeafPath {
					el.AddWarning(KindStructure, entryPath,
						fmt.Sprintf("spread entry %q should be a path expression resolving to a sequence", e.Key))
				}
			}

			if dec.ArrayConversion {
				if e.Value.Kind != document.KindMapping {
					el.Add(&Error{
						Kind:       KindStructure,
						Severity:   SeverityError,
						Path:       entryPath,
						Message:    fmt.Sprintf("array conversion marker on %q requires an object value, got %s", e.Key, e.Value.Kind),
						Suggestion: fmt.Sprintf("remove the brackets or give %q an object value", dec.Name),
					})
					continue
				}

				// A conversion opens its own spread scope; nested conversions
				// do not feed the outer one.
				inner := 0
				validateNode(e.Value, entryPath, &inner, el)
				if inner == 0 {
					el.Add(&Error{
						Kind:       KindNoSpreadTarget,
						Severity:   SeverityError,
						Path:       entryPath,
						Message:    fmt.Sprintf("array conversion %q has no spread entry", e.Key),
						Suggestion: "mark at least one descendant entry with the \"...\" prefix",
					})
				}
				continue
			}

			validateNode(e.Value, entryPath, spreads, el)
		}

	case document.KindSequence:
		for i, item := range v.Items() {
			validateNode(item, path+"/"+strconv.Itoa(i), spreads, el)
		}
	}
}
