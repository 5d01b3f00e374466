package principal

import "testing"

func TestParse(t *testing.T) {
	p, err := Parse("  air-1 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p != "air-1" {
		t.Fatalf("principal = %q, want air-1", p)
	}
	if _, err := Parse("   "); err != ErrPrincipalRequired {
		t.Fatalf("err = %v, want ErrPrincipalRequired", err)
	}
}

func TestAmountString(t *testing.T) {
	tests := []struct {
		amount Amount
		want   string
	}{
		{0, "0"},
		{Unit, "1"},
		{Units(10), "10"},
		{Unit * 3 / 2, "1.5"},
		{1, "0.000000001"},
	}
	for _, tc := range tests {
		if got := tc.amount.String(); got != tc.want {
			t.Fatalf("Amount(%d).String() = %q, want %q", uint64(tc.amount), got, tc.want)
		}
	}
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{in: "1", want: Unit},
		{in: "1.5", want: Unit * 3 / 2},
		{in: "0.000000001", want: 1},
		{in: "10", want: Units(10)},
		{in: "", wantErr: true},
		{in: "1.", wantErr: true},
		{in: "1.0000000001", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseUnits(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseUnits(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseUnits(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseUnits(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("1500000000")
	if err != nil {
		t.Fatalf("parse amount: %v", err)
	}
	if got != Unit*3/2 {
		t.Fatalf("amount = %d", got)
	}
	if got, err := ParseAmount(""); err != nil || got != 0 {
		t.Fatalf("empty amount = %d, %v", got, err)
	}
	if _, err := ParseAmount("-1"); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestAmountAddOverflow(t *testing.T) {
	if _, ok := (^Amount(0)).Add(1); ok {
		t.Fatal("expected overflow")
	}
	if sum, ok := Unit.Add(Unit); !ok || sum != Units(2) {
		t.Fatalf("sum = %d, ok = %v", sum, ok)
	}
}
