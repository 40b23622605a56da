package emailaddr

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		" Jane@Example.COM ": "jane@example.com",
		"jane@example.com":   "jane@example.com",
		"JANE@EXAMPLE.COM":   "jane@example.com",
	}

	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Jane@Example.com", " jane@example.COM ") {
		t.Fatalf("expected addresses to identify the same account")
	}
	if Equal("jane@example.com", "john@example.com") {
		t.Fatalf("expected different accounts")
	}
}
