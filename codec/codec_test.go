package codec

import "testing"

func TestEmptyObjectMatchesGenesisConstant(t *testing.T) {
	got := HashHex(Object())
	if got != EmptyHash {
		t.Fatalf("H({}) = %s, want %s", got, EmptyHash)
	}
}

func TestObjectIsOrderInsensitive(t *testing.T) {
	a := Object(Field{"a", Int(1)}, Field{"b", Int(2)})
	b := Object(Field{"b", Int(2)}, Field{"a", Int(1)})
	if a != b {
		t.Fatalf("canonical forms differ by field order: %q vs %q", a, b)
	}
	if HashHex(a) != HashHex(b) {
		t.Fatalf("hashes differ by field order")
	}
}

func TestFloatKeepsDecimalPoint(t *testing.T) {
	cases := map[float64]string{
		1.0:  "1.0",
		0.0:  "0.0",
		1.5:  "1.5",
		10.0: "10.0",
	}
	for in, want := range cases {
		if got := Float(in); got != want {
			t.Errorf("Float(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestStrQuotesAndEscapes(t *testing.T) {
	if got := Str(`a"b`); got != `"a\"b"` {
		t.Fatalf("Str = %q", got)
	}
}

func TestArrayPreservesOrder(t *testing.T) {
	got := Array(Str("x"), Str("y"))
	if got != `["x","y"]` {
		t.Fatalf("Array = %q", got)
	}
}
