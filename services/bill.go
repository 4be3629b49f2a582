package services

import (
	"math"
	"time"
)

// ProjectDetails is the bill header supplied by the form or by a parsed
// workbook. It is read-only for the duration of an export.
type ProjectDetails struct {
	ProjectName    string    `json:"projectName"`
	ContractorName string    `json:"contractorName"`
	BillDate       time.Time `json:"billDate"`
	TenderPremium  float64   `json:"tenderPremium"` // percent, 0-100
}

// BillItem is a single line of work on the bill.
type BillItem struct {
	ItemNo      string    `json:"itemNo"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Rate        float64   `json:"rate"`
	Unit        string    `json:"unit"`
	PreviousQty float64   `json:"previousQty"`
	Level       ItemLevel `json:"level"`
}

// Amount returns quantity * rate without any guarding.
func (i BillItem) Amount() float64 {
	return i.Quantity * i.Rate
}

// BillInput bundles a project header and its items, the shape submitted by
// the form and stored in drafts.
type BillInput struct {
	ProjectDetails
	Items []BillItem `json:"items"`
}

// BillStats is the derived summary shown alongside the bill. It is recomputed
// from the item list on every call and never cached.
type BillStats struct {
	Subtotal             float64    `json:"subtotal"`
	Premium              float64    `json:"premium"`
	TotalAmount          float64    `json:"totalAmount"`
	TenderPremiumPercent float64    `json:"tenderPremiumPercent"`
	ItemCount            int        `json:"itemCount"`
	ValidItems           []BillItem `json:"validItems"`
}

// IsValidItem reports whether an item counts toward the calculator totals:
// both quantity and rate must be strictly positive.
func IsValidItem(item BillItem) bool {
	return item.Quantity > 0 && item.Rate > 0
}

// CalculateBillStats computes subtotal, premium and net payable over the
// valid items. Non-finite line amounts count as zero and all three amounts
// are clamped at zero. items is not modified.
func CalculateBillStats(items []BillItem, tenderPremiumPercent float64) BillStats {
	valid := make([]BillItem, 0, len(items))
	var subtotal float64
	for _, item := range items {
		if !IsValidItem(item) {
			continue
		}
		valid = append(valid, item)
		amount := item.Amount()
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			amount = 0
		}
		subtotal += amount
	}

	premium := subtotal * tenderPremiumPercent / 100
	total := subtotal + premium

	return BillStats{
		Subtotal:             clampZero(subtotal),
		Premium:              clampZero(premium),
		TotalAmount:          clampZero(total),
		TenderPremiumPercent: tenderPremiumPercent,
		ItemCount:            len(valid),
		ValidItems:           valid,
	}
}

// clampZero returns v, or 0 when v is negative or NaN.
func clampZero(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
