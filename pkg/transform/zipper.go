package transform

import (
	"fmt"
	"strconv"

	"mercator-hq/saturn/pkg/document"
	"mercator-hq/saturn/pkg/template"
)

// spreadEntry is one "...name" entry discovered under an array conversion:
// where it sits in the template, the path expression it carries, and the
// sequence it resolved to.
type spreadEntry struct {
	tmplPath string
	expr     string
	items    []document.Value
}

// convert implements object-to-array conversion for one "[name]"-marked
// object. It discovers every spread entry in the object's subtree (nested
// conversions excluded: they open their own scope), resolves each to a
// sequence, requires all sequences to share one length N, and renders N
// sibling copies of the object. Copy i substitutes element i for every
// spread entry; all other content renders normally against the original,
// unsliced source and is therefore identical across copies.
func (w *walker) convert(obj document.Value, tmplPath string, depth int) (document.Value, error) {
	if depth > w.opts.MaxDepth {
		return document.Value{}, &TransformError{TemplatePath: tmplPath, Err: ErrDepthExceeded}
	}

	var spreads []*spreadEntry
	if err := w.collectSpreads(obj, tmplPath, depth, &spreads); err != nil {
		return document.Value{}, err
	}
	if len(spreads) == 0 {
		return document.Value{}, &TransformError{TemplatePath: tmplPath, Err: ErrNoSpreadTarget}
	}

	// Resolve every spread entry and validate length agreement. Spread
	// resolution always fails hard on missing fields: a missing spread
	// sequence has no meaningful substitute.
	n := -1
	for _, sp := range spreads {
		path, err := ParsePath(sp.expr)
		if err != nil {
			return document.Value{}, &TransformError{TemplatePath: sp.tmplPath, Err: err}
		}
		res, err := Resolve(w.source, path)
		if err != nil {
			return document.Value{}, &TransformError{TemplatePath: sp.tmplPath, Err: err}
		}
		items, ok := res.Sequence()
		if !ok {
			return document.Value{}, &TransformError{
				TemplatePath: sp.tmplPath,
				Err:          ErrSpreadTypeMismatch,
				Detail:       fmt.Sprintf("%q resolved to %s", sp.expr, res.Value().Kind),
			}
		}
		if n >= 0 && len(items) != n {
			return document.Value{}, &TransformError{
				TemplatePath: tmplPath,
				Err:          ErrSpreadLengthMismatch,
				Detail:       fmt.Sprintf("%q has length %d, earlier spread entries have length %d", sp.expr, len(items), n),
			}
		}
		n = len(items)
		sp.items = items
	}

	byPath := make(map[string]*spreadEntry, len(spreads))
	for _, sp := range spreads {
		byPath[sp.tmplPath] = sp
	}

	out := make([]document.Value, 0, n)
	for i := 0; i < n; i++ {
		copyVal, err := w.renderCopy(obj, tmplPath, depth+1, i, byPath)
		if err != nil {
			return document.Value{}, err
		}
		out = append(out, copyVal)
	}
	return document.Sequence(out...), nil
}

// collectSpreads depth-first scans a conversion subtree for spread entries.
// Subtrees under a nested array conversion are skipped: their spreads belong
// to the nearest enclosing conversion, which is the nested one.
func (w *walker) collectSpreads(v document.Value, tmplPath string, depth int, out *[]*spreadEntry) error {
	if depth > w.opts.MaxDepth {
		return &TransformError{TemplatePath: tmplPath, Err: ErrDepthExceeded}
	}

	switch v.Kind {
	case document.KindMapping:
		for _, e := range v.Entries() {
			entryPath := tmplPath + "/" + e.Key

			dec, err := template.ParseKey(e.Key)
			if err != nil {
				return &TransformError{TemplatePath: entryPath, Err: ErrTemplateSyntax, Detail: err.Error()}
			}

			if dec.ArrayConversion {
				continue
			}

			if dec.Spread {
				if e.Value.Kind != document.KindString {
					return &TransformError{
						TemplatePath: entryPath,
						Err:          ErrSpreadTypeMismatch,
						Detail:       "spread entry must be a path expression, got " + e.Value.Kind.String(),
					}
				}
				kind, payload := template.ParseLeaf(e.Value.StringValue())
				if kind != template.LeafPath {
					return &TransformError{
						TemplatePath: entryPath,
						Err:          ErrSpreadTypeMismatch,
						Detail:       "spread entry must be a path expression",
					}
				}
				*out = append(*out, &spreadEntry{tmplPath: entryPath, expr: payload})
				continue
			}

			if err := w.collectSpreads(e.Value, entryPath, depth+1, out); err != nil {
				return err
			}
		}

	case document.KindSequence:
		for i, item := range v.Items() {
			if err := w.collectSpreads(item, tmplPath+"/"+strconv.Itoa(i), depth+1, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderCopy renders copy idx of a conversion subtree: spread entries take
// element idx of their resolved sequence, nested conversions render
// independently per copy, and everything else renders normally.
func (w *walker) renderCopy(v document.Value, tmplPath string, depth int, idx int, spreads map[string]*spreadEntry) (document.Value, error) {
	if depth > w.opts.MaxDepth {
		return document.Value{}, &TransformError{TemplatePath: tmplPath, Err: ErrDepthExceeded}
	}

	switch v.Kind {
	case document.KindMapping:
		entries := make([]document.Entry, 0, v.Len())
		for _, e := range v.Entries() {
			entryPath := tmplPath + "/" + e.Key

			dec, err := template.ParseKey(e.Key)
			if err != nil {
				return document.Value{}, &TransformError{TemplatePath: entryPath, Err: ErrTemplateSyntax, Detail: err.Error()}
			}

			if dec.ArrayConversion {
				if e.Value.Kind != document.KindMapping {
					return document.Value{}, &TransformError{
						TemplatePath: entryPath,
						Err:          ErrTemplateSyntax,
						Detail:       "array conversion marker requires an object value, got " + e.Value.Kind.String(),
					}
				}
				seq, err := w.convert(e.Value, entryPath, depth+1)
				if err != nil {
					return document.Value{}, err
				}
				entries = append(entries, document.Entry{Key: dec.Name, Value: seq})
				continue
			}

			if sp, ok := spreads[entryPath]; ok {
				entries = append(entries, document.Entry{Key: dec.Name, Value: sp.items[idx]})
				continue
			}

			var val document.Value
			switch e.Value.Kind {
			case document.KindMapping, document.KindSequence:
				// Containers may hold deeper spread entries of this scope.
				val, err = w.renderCopy(e.Value, entryPath, depth+1, idx, spreads)
			default:
				val, err = w.render(e.Value, entryPath, depth+1)
			}
			if err != nil {
				return document.Value{}, err
			}
			entries = append(entries, document.Entry{Key: dec.Name, Value: val})
		}
		return document.Mapping(entries...), nil

	case document.KindSequence:
		items := make([]document.Value, 0, v.Len())
		for i, item := range v.Items() {
			val, err := w.renderCopy(item, tmplPath+"/"+strconv.Itoa(i), depth+1, idx, spreads)
			if err != nil {
				return document.Value{}, err
			}
			items = append(items, val)
		}
		return document.Sequence(items...), nil

	default:
		return w.render(v, tmplPath, depth)
	}
}
