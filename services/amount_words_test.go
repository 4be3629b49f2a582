package services

import (
	"math"
	"testing"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		expect string
	}{
		{"zero", 0, "Rupees Zero Only"},
		{"single digit", 5, "Rupees Five Only"},
		{"teens", 15, "Rupees Fifteen Only"},
		{"round tens", 40, "Rupees Forty Only"},
		{"hundred and", 150, "Rupees One Hundred and Fifty Only"},
		{"net payable", 1300, "Rupees One Thousand Three Hundred Only"},
		{"rounds paise", 1299.5, "Rupees One Thousand Three Hundred Only"},
		{"lakhs", 913183, "Rupees Nine Lakh Thirteen Thousand One Hundred and Eighty Three Only"},
		{"exact lakh", 100000, "Rupees One Lakh Only"},
		{"crores", 12345678, "Rupees One Crore Twenty Three Lakh Forty Five Thousand Six Hundred and Seventy Eight Only"},
		{"hundreds of crores", 1500000000, "Rupees One Hundred and Fifty Crore Only"},
		{"negative", -250, "Minus Rupees Two Hundred and Fifty Only"},
		{"not a number", math.NaN(), "Rupees Zero Only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountInWords(tt.amount); got != tt.expect {
				t.Errorf("AmountInWords(%v) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}
