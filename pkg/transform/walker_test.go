package transform

import (
	"errors"
	"strings"
	"testing"

	"mercator-hq/saturn/pkg/document"
)

func mustTransform(t *testing.T, source, tmpl string, opts *Options) document.Value {
	t.Helper()
	out, err := Transform(mustDecode(t, source), mustDecode(t, tmpl), opts)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	return out
}

func TestTransform_WorkedExample(t *testing.T) {
	tmpl := `{
		"account_id": "/retailer/id",
		"trackings": "/order/shipments/tracking_number",
		"quantity": "/order/shipments/items/quantity",
		"item_ids": "/ids"
	}`

	got := mustTransform(t, orderSource, tmpl, nil)
	want := mustDecode(t, `{
		"account_id": "12342",
		"trackings": ["1234567", "98776"],
		"quantity": [4, 3, 1, 1],
		"item_ids": ["34554543", "7643534", "512342"]
	}`)

	if !got.Equal(want) {
		t.Errorf("Transform() = %s, want %s", got, want)
	}
}

func TestTransform_PreservesTemplateKeyOrder(t *testing.T) {
	tmpl := `{"zeta": "/retailer/id", "alpha": "'a'", "mu": 3}`

	got := mustTransform(t, orderSource, tmpl, nil)
	var keys []string
	for _, e := range got.Entries() {
		keys = append(keys, e.Key)
	}
	if strings.Join(keys, ",") != "zeta,alpha,mu" {
		t.Errorf("output key order = %v, want template declaration order", keys)
	}
}

func TestTransform_Literals(t *testing.T) {
	tmpl := `{
		"fixed": "'hello'",
		"looks_like_path": "'/retailer/id'",
		"empty": "''"
	}`

	got := mustTransform(t, orderSource, tmpl, nil)
	want := mustDecode(t, `{"fixed": "hello", "looks_like_path": "/retailer/id", "empty": ""}`)
	if !got.Equal(want) {
		t.Errorf("Transform() = %s, want %s", got, want)
	}
}

func TestTransform_ScalarsPassThrough(t *testing.T) {
	tmpl := `{
		"count": 7,
		"rate": 0.5,
		"enabled": true,
		"missing": null,
		"note": "plain text"
	}`

	got := mustTransform(t, orderSource, tmpl, nil)
	want := mustDecode(t, tmpl)
	if !got.Equal(want) {
		t.Errorf("Transform() = %s, want %s", got, want)
	}
}

func TestTransform_NestedStructure(t *testing.T) {
	tmpl := `{
		"summary": {
			"account": {"id": "/retailer/id"},
			"po": "/order/po_number"
		},
		"pair": ["/retailer/id", "'x'"]
	}`

	got := mustTransform(t, orderSource, tmpl, nil)
	want := mustDecode(t, `{
		"summary": {
			"account": {"id": "12342"},
			"po": "573832"
		},
		"pair": ["12342", "x"]
	}`)
	if !got.Equal(want) {
		t.Errorf("Transform() = %s, want %s", got, want)
	}
}

func TestTransform_SourceNotMutated(t *testing.T) {
	source := mustDecode(t, orderSource)
	tmpl := mustDecode(t, `{"ids": "/ids", "q": "/order/shipments/items/quantity"}`)

	if _, err := Transform(source, tmpl, nil); err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	if !source.Equal(mustDecode(t, orderSource)) {
		t.Error("Transform() mutated the source document")
	}
}

func TestTransform_MissingFieldFails(t *testing.T) {
	_, err := Transform(mustDecode(t, orderSource), mustDecode(t, `{"x": "/retailer/nope"}`), nil)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("Transform() error = %v, want ErrMissingField", err)
	}

	var terr *TransformError
	if !errors.As(err, &terr) {
		t.Fatal("error is not a *TransformError")
	}
	if terr.TemplatePath != "/x" {
		t.Errorf("TemplatePath = %q, want %q", terr.TemplatePath, "/x")
	}
}

func TestTransform_MissingFieldNullPolicy(t *testing.T) {
	opts := &Options{OnMissingField: MissingFieldNull}
	got := mustTransform(t, orderSource, `{"x": "/retailer/nope", "y": "/retailer/id"}`, opts)

	want := mustDecode(t, `{"x": null, "y": "12342"}`)
	if !got.Equal(want) {
		t.Errorf("Transform() = %s, want %s", got, want)
	}
}

func TestTransform_SpreadOutsideConversion(t *testing.T) {
	_, err := Transform(mustDecode(t, orderSource), mustDecode(t, `{"...ids": "/ids"}`), nil)
	if !errors.Is(err, ErrTemplateSyntax) {
		t.Fatalf("Transform() error = %v, want ErrTemplateSyntax", err)
	}
}

func TestTransform_MalformedKey(t *testing.T) {
	_, err := Transform(mustDecode(t, orderSource), mustDecode(t, `{"[order": {"...ids": "/ids"}}`), nil)
	if !errors.Is(err, ErrTemplateSyntax) {
		t.Fatalf("Transform() error = %v, want ErrTemplateSyntax", err)
	}
}

func TestTransform_DepthExceeded(t *testing.T) {
	// Build a template nested beyond the limit.
	var sb strings.Builder
	depth := 40
	for i := 0; i < depth; i++ {
		sb.WriteString(`{"a":`)
	}
	sb.WriteString(`"/retailer/id"`)
	for i := 0; i < depth; i++ {
		sb.WriteString(`}`)
	}

	_, err := Transform(mustDecode(t, orderSource), mustDecode(t, sb.String()), &Options{MaxDepth: 10})
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("Transform() error = %v, want ErrDepthExceeded", err)
	}
}

func TestTransform_TopLevelLeafTemplate(t *testing.T) {
	out, err := Transform(mustDecode(t, orderSource), document.String("/retailer/id"), nil)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	if out.StringValue() != "12342" {
		t.Errorf("Transform() = %s, want %q", out, "12342")
	}
}
