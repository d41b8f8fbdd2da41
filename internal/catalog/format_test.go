package catalog

import (
	"math"
	"testing"

	"github.com/dukerupert/menuboard/internal/model"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   model.Price
		want string
	}{
		{0, "0 SP"},
		{5, "5 SP"},
		{12.5, "12.5 SP"},
		{1234.5678, "1,234.568 SP"},
		{1000000, "1,000,000 SP"},
		{999.9999, "1,000 SP"},
		{-2500, "-2,500 SP"},
		{model.Price(math.NaN()), "0 SP"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", float64(tt.in), got, tt.want)
		}
	}
}
