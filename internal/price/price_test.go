package price

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"thousands and decimal", "2.000,50", 2000.50},
		{"plain integer string", "1500", 1500},
		{"decimal comma only", "2000,5", 2000.5},
		{"zero", "0", 0},
		{"empty string", "", 0},
		{"spaces around", "  1.200 ", 1200},
		{"nonbreaking space", "1 200", 1200},
		{"garbage", "abc", 0},
		{"nil", nil, 0},
		{"float passthrough", 12.5, 12.5},
		{"int passthrough", 1500, 1500.0},
		{"bool collapses to zero", true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Parse(tc.in); got != tc.want {
				t.Errorf("Parse(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseStrict(t *testing.T) {
	got, err := ParseStrict("2.000,50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2000.50 {
		t.Errorf("got %v, want 2000.50", got)
	}

	if _, err := ParseStrict("2.000,50 CLP"); err == nil {
		t.Error("expected error for trailing text")
	}
	if _, err := ParseStrict("abc"); err == nil {
		t.Error("expected error for garbage")
	}
}

func TestFormatRoundTrips(t *testing.T) {
	for _, f := range []float64{0, 1500, 2000.5, 3.75, -125.25} {
		if got := Parse(Format(f)); got != f {
			t.Errorf("Parse(Format(%v)) = %v", f, got)
		}
	}
	if got := Format(2000.5); got != "2000,5" {
		t.Errorf("Format(2000.5) = %q", got)
	}
}
