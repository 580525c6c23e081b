package document

import (
	"strings"
	"testing"
)

func TestDecodeYAML_Document(t *testing.T) {
	input := `
retailer:
  id: "12342"
order:
  shipments:
    - tracking_number: "1234567"
      quantity: 4
    - tracking_number: "98776"
      quantity: 3
enabled: true
note: null
`

	got, err := DecodeYAML([]byte(input))
	if err != nil {
		t.Fatalf("DecodeYAML() failed: %v", err)
	}

	want := Mapping(
		Entry{Key: "retailer", Value: Mapping(Entry{Key: "id", Value: String("12342")})},
		Entry{Key: "order", Value: Mapping(
			Entry{Key: "shipments", Value: Sequence(
				Mapping(
					Entry{Key: "tracking_number", Value: String("1234567")},
					Entry{Key: "quantity", Value: Number("4")},
				),
				Mapping(
					Entry{Key: "tracking_number", Value: String("98776")},
					Entry{Key: "quantity", Value: Number("3")},
				),
			)},
		)},
		Entry{Key: "enabled", Value: Bool(true)},
		Entry{Key: "note", Value: Null()},
	)

	if !got.Equal(want) {
		t.Errorf("DecodeYAML() = %s, want %s", got, want)
	}
}

func TestDecodeYAML_Empty(t *testing.T) {
	got, err := DecodeYAML(nil)
	if err != nil {
		t.Fatalf("DecodeYAML() failed: %v", err)
	}
	if !got.IsNull() {
		t.Errorf("DecodeYAML(empty) = %s, want null", got)
	}
}

func TestDecodeYAML_Anchors(t *testing.T) {
	input := `
base: &id "12342"
copy: *id
`
	got, err := DecodeYAML([]byte(input))
	if err != nil {
		t.Fatalf("DecodeYAML() failed: %v", err)
	}

	c, ok := got.Get("copy")
	if !ok || c.StringValue() != "12342" {
		t.Errorf("copy = %s, want %q", c, "12342")
	}
}

func TestDecodeYAML_DuplicateKey(t *testing.T) {
	input := "a: 1\na: 2\n"
	if _, err := DecodeYAML([]byte(input)); err == nil {
		t.Error("DecodeYAML() succeeded on duplicate key, want error")
	}
}

func TestEncodeYAML_QuotesAmbiguousStrings(t *testing.T) {
	v := Mapping(
		Entry{Key: "id", Value: String("12342")},
		Entry{Key: "count", Value: Number("12342")},
	)

	out, err := EncodeYAML(v)
	if err != nil {
		t.Fatalf("EncodeYAML() failed: %v", err)
	}

	// The string must stay a string on re-parse.
	back, err := DecodeYAML(out)
	if err != nil {
		t.Fatalf("DecodeYAML() failed on %q: %v", out, err)
	}
	id, _ := back.Get("id")
	if id.Kind != KindString {
		t.Errorf("re-parsed id kind = %v, want string", id.Kind)
	}
	count, _ := back.Get("count")
	if count.Kind != KindNumber {
		t.Errorf("re-parsed count kind = %v, want number", count.Kind)
	}
}

func TestYAML_RoundTripPreservesOrder(t *testing.T) {
	input := "zeta: 1\nalpha: 2\nmu: 3\n"

	v, err := DecodeYAML([]byte(input))
	if err != nil {
		t.Fatalf("DecodeYAML() failed: %v", err)
	}
	out, err := EncodeYAML(v)
	if err != nil {
		t.Fatalf("EncodeYAML() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	wantPrefixes := []string{"zeta", "alpha", "mu"}
	if len(lines) != len(wantPrefixes) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(wantPrefixes), out)
	}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(lines[i], prefix+":") {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix+":")
		}
	}
}
