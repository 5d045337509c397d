package market

import (
	"testing"

	"github.com/shopspring/decimal"
)

func pair(ts int64, price string) []decimal.Decimal {
	return []decimal.Decimal{decimal.NewFromInt(ts), decimal.RequireFromString(price)}
}

func TestNewPriceSeries_SortsAndDropsMalformed(t *testing.T) {
	series := NewPriceSeries([][]decimal.Decimal{
		pair(3000, "3"),
		pair(1000, "1"),
		{decimal.NewFromInt(4000)},
		pair(2000, "-2"),
		pair(0, "5"),
		pair(2500, "2.5"),
	})
	if len(series) != 3 {
		t.Fatalf("len = %d, want 3 (%v)", len(series), series)
	}
	for i, want := range []int64{1000, 2500, 3000} {
		if series[i].Timestamp != want {
			t.Fatalf("series[%d].Timestamp = %d, want %d", i, series[i].Timestamp, want)
		}
	}
}

func TestPriceSeries_BoundsAndClone(t *testing.T) {
	series := NewPriceSeries([][]decimal.Decimal{pair(1, "5"), pair(2, "2"), pair(3, "9")})
	low, high, ok := series.Bounds()
	if !ok || !low.Equal(decimal.NewFromInt(2)) || !high.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("Bounds = %v %v %v, want 2 9 true", low, high, ok)
	}

	dup := series.Clone()
	dup[0].Timestamp = 99
	if series[0].Timestamp != 1 {
		t.Fatalf("Clone shares backing array")
	}

	if _, _, ok := PriceSeries(nil).Bounds(); ok {
		t.Fatal("Bounds on empty series reported ok")
	}
}

func TestPriceSnapshot_PriceChanged(t *testing.T) {
	a := &PriceSnapshot{Price: decimal.RequireFromString("300")}
	b := &PriceSnapshot{Price: decimal.RequireFromString("300.00")}
	c := &PriceSnapshot{Price: decimal.RequireFromString("310.5")}

	if a.PriceChanged(b) {
		t.Fatal("equal prices reported as changed")
	}
	if !a.PriceChanged(c) {
		t.Fatal("different prices not reported as changed")
	}
	if a.Direction(c) != 1 || c.Direction(a) != -1 {
		t.Fatalf("Direction mismatch: %d %d", a.Direction(c), c.Direction(a))
	}
	var nilSnap *PriceSnapshot
	if nilSnap.PriceChanged(a) {
		t.Fatal("nil snapshot reported change")
	}
}
