package boolexpr

import "testing"

func TestEval(t *testing.T) {
	cases := []struct {
		expr   string
		inputs []bool
		want   bool
	}{
		{"A1", []bool{true}, true},
		{"A1", []bool{false}, false},
		{"~A1", []bool{false}, true},
		{"A1*A2", []bool{true, true}, true},
		{"A1*A2", []bool{true, false}, false},
		{"A1+A2", []bool{false, true}, true},
		{"A1+A2", []bool{false, false}, false},
		{"~A1*A2+A1*~A2", []bool{true, false}, true},
		{"~A1*A2+A1*~A2", []bool{true, true}, false},
		{"(A1+A2)*A3", []bool{false, true, true}, true},
		{"(A1+A2)*A3", []bool{false, true, false}, false},
	}
	for _, c := range cases {
		got, err := Eval(c.expr, c.inputs)
		if err != nil {
			t.Fatalf("Eval(%q): %v", c.expr, err)
		}
		if got != c.want {
			t.Errorf("Eval(%q, %v) = %v, want %v", c.expr, c.inputs, got, c.want)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	bad := []string{"", "A1*", "(A1", "A1)", "A9", "A1 % A2"}
	for _, expr := range bad {
		if _, err := Eval(expr, []bool{true}); err == nil {
			t.Errorf("Eval(%q): expected error, got nil", expr)
		}
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	exprs := []string{"A1", "~A1", "A1*A2", "A1+A2", "A1*A2+~A1*~A2"}
	for _, expr := range exprs {
		tt, err := Parse(expr, 2)
		if err != nil {
			t.Fatalf("Parse(%q): %v", expr, err)
		}
		s := String(tt, 2)
		tt2, err := Parse(s, 2)
		if err != nil {
			t.Fatalf("re-Parse(%q): %v", s, err)
		}
		if tt != tt2 {
			t.Errorf("round-trip mismatch for %q: %#x via %q -> %#x", expr, tt, s, tt2)
		}
	}
}

func TestParseEmptyIsZero(t *testing.T) {
	tt, err := Parse("", 3)
	if err != nil {
		t.Fatal(err)
	}
	if tt != 0 {
		t.Errorf("Parse(\"\") = %#x, want 0", tt)
	}
}

func TestStringConstants(t *testing.T) {
	if got := String(0, 3); got != "0" {
		t.Errorf("String(0, 3) = %q, want \"0\"", got)
	}
	full := uint64(1)<<(1<<3) - 1
	if got := String(full, 3); got != "1" {
		t.Errorf("String(full, 3) = %q, want \"1\"", got)
	}
}

func TestParseConstants(t *testing.T) {
	// String renders all-zero/all-one tables as "0"/"1"; Parse must accept
	// them back.
	tt, err := Parse("0", 5)
	if err != nil {
		t.Fatalf("Parse(\"0\"): %v", err)
	}
	if tt != 0 {
		t.Errorf("Parse(\"0\") = %#x, want 0", tt)
	}
	tt, err = Parse("1", 5)
	if err != nil {
		t.Fatalf("Parse(\"1\"): %v", err)
	}
	if want := uint64(1)<<32 - 1; tt != want {
		t.Errorf("Parse(\"1\") = %#x, want %#x", tt, want)
	}
	if _, err := Eval("~0*1+~(0)", nil); err != nil {
		t.Errorf("constants inside larger expressions should parse: %v", err)
	}
}

func TestParseAllOnesAndZero(t *testing.T) {
	tt, err := Parse("A1+~A1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if tt != 0x3 {
		t.Errorf("A1+~A1 over 1 input = %#x, want 0x3", tt)
	}
	tt, err = Parse("A1*~A1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if tt != 0 {
		t.Errorf("A1*~A1 over 1 input = %#x, want 0", tt)
	}
}
