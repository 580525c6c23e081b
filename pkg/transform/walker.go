package transform

import (
	"errors"
	"strconv"

	"mercator-hq/saturn/pkg/document"
	"mercator-hq/saturn/pkg/template"
)

// Transform renders the template against the source document and returns the
// reshaped output. Neither input is modified. A nil opts selects the
// defaults (see Options).
func Transform(source, tmpl document.Value, opts *Options) (document.Value, error) {
	w := &walker{source: source, opts: opts.withDefaults()}
	return w.render(tmpl, "", 0)
}

// walker drives one transformation. It carries no mutable state beyond the
// immutable source and options, so all recursion is re-entrant.
type walker struct {
	source document.Value
	opts   Options
}

// render recursively renders one template node. tmplPath locates the node in
// the template for error reporting, using the raw (decorated) keys.
func (w *walker) render(tmpl document.Value, tmplPath string, depth int) (document.Value, error) {
	if depth > w.opts.MaxDepth {
		return document.Value{}, &TransformError{TemplatePath: tmplPath, Err: ErrDepthExceeded}
	}

	switch tmpl.Kind {
	case document.KindMapping:
		entries := make([]document.Entry, 0, tmpl.Len())
		for _, e := range tmpl.Entries() {
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

			if dec.Spread {
				return document.Value{}, &TransformError{
					TemplatePath: entryPath,
					Err:          ErrTemplateSyntax,
					Detail:       "spread entry is not inside an array conversion",
				}
			}

			val, err := w.render(e.Value, entryPath, depth+1)
			if err != nil {
				return document.Value{}, err
			}
			entries = append(entries, document.Entry{Key: dec.Name, Value: val})
		}
		return document.Mapping(entries...), nil

	case document.KindSequence:
		items := make([]document.Value, 0, tmpl.Len())
		for i, item := range tmpl.Items() {
			val, err := w.render(item, tmplPath+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return document.Value{}, err
			}
			items = append(items, val)
		}
		return document.Sequence(items...), nil

	case document.KindString:
		return w.renderLeaf(tmpl.StringValue(), tmplPath)

	default:
		// Scalars pass through verbatim.
		return tmpl, nil
	}
}

// renderLeaf renders a template leaf string: literal, path expression, or
// verbatim copy.
func (w *walker) renderLeaf(s, tmplPath string) (document.Value, error) {
	kind, payload := template.ParseLeaf(s)
	switch kind {
	case template.LeafLiteral:
		return document.String(payload), nil

	case template.LeafPath:
		path, err := ParsePath(payload)
		if err != nil {
			return document.Value{}, &TransformError{TemplatePath: tmplPath, Err: err}
		}
		res, err := Resolve(w.source, path)
		if err != nil {
			if w.opts.OnMissingField == MissingFieldNull && errors.Is(err, ErrMissingField) {
				return document.Null(), nil
			}
			return document.Value{}, &TransformError{TemplatePath: tmplPath, Err: err}
		}
		return res.AsValue(), nil

	default:
		return document.String(s), nil
	}
}
