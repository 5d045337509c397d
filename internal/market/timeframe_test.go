package market

import "testing"

func TestParseTimeframe(t *testing.T) {
	tests := []struct {
		in      string
		want    Timeframe
		wantErr bool
	}{
		{"1d", Timeframe1D, false},
		{"7d", Timeframe7D, false},
		{" 14D ", Timeframe14D, false},
		{"30", Timeframe30D, false},
		{"6mo", Timeframe180D, false},
		{"180d", Timeframe180D, false},
		{"1yr", Timeframe365D, false},
		{"365", Timeframe365D, false},
		{"", 0, true},
		{"2d", 0, true},
		{"week", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeframe(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimeframe(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeframe(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseTimeframe(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeframeLabelsAndNext(t *testing.T) {
	if got := Timeframe180D.String(); got != "6mo" {
		t.Fatalf("String() = %q, want 6mo", got)
	}
	if got := Timeframe365D.Next(1); got != Timeframe1D {
		t.Fatalf("Next(1) from 1yr = %v, want 1d", got)
	}
	if got := Timeframe1D.Next(-1); got != Timeframe365D {
		t.Fatalf("Next(-1) from 1d = %v, want 1yr", got)
	}
	if got := Timeframe(3).Next(1); got != DefaultTimeframe {
		t.Fatalf("Next on invalid = %v, want default", got)
	}
	if Timeframe(3).Valid() {
		t.Fatal("Timeframe(3).Valid() = true, want false")
	}
}

func TestTimeframeTextRoundTrip(t *testing.T) {
	var tf Timeframe
	if err := tf.UnmarshalText([]byte("6mo")); err != nil {
		t.Fatalf("UnmarshalText error = %v", err)
	}
	text, _ := tf.MarshalText()
	if string(text) != "6mo" {
		t.Fatalf("MarshalText = %q, want 6mo", text)
	}
}
