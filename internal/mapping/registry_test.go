package mapping

import (
	"strings"
	"testing"
)

func TestRegistryWellFormed(t *testing.T) {
	t.Parallel()

	all := All()
	if len(all) < 18 {
		t.Fatalf("expected at least 18 registered fields, got %d", len(all))
	}

	seen := map[string]bool{}
	for _, m := range all {
		if m.Field == "" {
			t.Fatal("mapping with empty field name")
		}
		if seen[m.Field] {
			t.Fatalf("duplicate field %q", m.Field)
		}
		seen[m.Field] = true

		if m.BaseConfidence <= 0 || m.BaseConfidence > 1 {
			t.Errorf("%s: base confidence %v out of (0,1]", m.Field, m.BaseConfidence)
		}
		if len(m.Selectors) == 0 {
			t.Errorf("%s: no selectors", m.Field)
		}
		if len(m.Keywords) == 0 {
			t.Errorf("%s: no keywords", m.Field)
		}
		for _, kw := range m.Keywords {
			if kw != strings.ToLower(kw) {
				t.Errorf("%s: keyword %q is not lowercase", m.Field, kw)
			}
		}
	}
}

func TestRegistryOrderPutsIdentityFirst(t *testing.T) {
	t.Parallel()

	// Tie-breaks favor earlier rows, so the common identity fields must
	// stay at the head of the table.
	all := All()
	if all[0].Field != "firstName" || all[1].Field != "lastName" {
		t.Fatalf("identity fields must lead the registry, got %s/%s", all[0].Field, all[1].Field)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if m := Get("email"); m == nil || m.Field != "email" {
		t.Fatalf("Get(email) = %+v", m)
	}
	if m := Get("nope"); m != nil {
		t.Fatalf("Get(nope) should be nil, got %+v", m)
	}
}
