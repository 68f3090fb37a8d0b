package state

import "testing"

func TestAsIntegerSaturatesNegative(t *testing.T) {
	s := Signed(-5)
	if got := s.AsInteger(); got != 0 {
		t.Fatalf("AsInteger() = %d, want 0", got)
	}
}

func TestAsIntegerRoundTrip(t *testing.T) {
	s := Integer(42)
	if got := s.AsInteger(); got != 42 {
		t.Fatalf("AsInteger() = %d, want 42", got)
	}
}

func TestAsBoolTruthiness(t *testing.T) {
	cases := []struct {
		s    State
		want bool
	}{
		{Integer(0), false},
		{Integer(1), true},
		{String(""), false},
		{String("x"), true},
		{Null(), false},
		{Array(nil), false},
	}
	for _, c := range cases {
		if got := c.s.AsBool(); got != c.want {
			t.Errorf("%#v.AsBool() = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestAsStringNeverFails(t *testing.T) {
	if got := Integer(7).AsString(); got != "7" {
		t.Fatalf("AsString() = %q, want 7", got)
	}
	if got := Null().AsString(); got != "" {
		t.Fatalf("AsString() on Null = %q, want empty", got)
	}
}

func TestAsArrayWrapsScalar(t *testing.T) {
	arr := Integer(3).AsArray()
	if len(arr) != 1 || arr[0].AsInteger() != 3 {
		t.Fatalf("AsArray() = %v, want single-element wrap", arr)
	}
	if len(Null().AsArray()) != 0 {
		t.Fatal("Null().AsArray() should be empty")
	}
}

func TestEqual(t *testing.T) {
	if !Integer(9).Equal(Integer(9)) {
		t.Fatal("Integer(9) should equal Integer(9)")
	}
	if Integer(9).Equal(Signed(9)) {
		t.Fatal("different kinds should not be equal")
	}
}
