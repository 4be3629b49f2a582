package services

import (
	"math"
	"strings"
)

// indianScales are the place values named when reading a rupee amount aloud.
var indianScales = []struct {
	value int64
	name  string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

var (
	unitWords = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tensWords = []string{
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
)

// AmountInWords spells a rupee amount, rounded to whole rupees, using the
// Indian crore/lakh scale: 1300 is "Rupees One Thousand Three Hundred Only".
func AmountInWords(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "Rupees Zero Only"
	}
	rupees := int64(math.Round(math.Abs(amount)))
	if rupees == 0 {
		return "Rupees Zero Only"
	}
	words := "Rupees " + spellRupees(rupees) + " Only"
	if amount < 0 {
		return "Minus " + words
	}
	return words
}

func spellRupees(n int64) string {
	var parts []string
	for _, scale := range indianScales {
		if n < scale.value {
			continue
		}
		count := n / scale.value
		n %= scale.value
		// Crores above 99 are themselves spelled on the same scale.
		parts = append(parts, spellRupees(count)+" "+scale.name)
	}
	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and")
		}
		parts = append(parts, spellUnder100(n))
	}
	return strings.Join(parts, " ")
}

func spellUnder100(n int64) string {
	if n < 20 {
		return unitWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + unitWords[n%10]
}
