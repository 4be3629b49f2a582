package services

import (
	"bytes"
	"time"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

var testBillDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

// sampleProject is the "Road Widening" bill used across renderer tests.
func sampleProject() ProjectDetails {
	return ProjectDetails{
		ProjectName:    "Road Widening",
		ContractorName: "ABC Corp",
		BillDate:       testBillDate,
		TenderPremium:  4,
	}
}

// sampleItems total 1250 before the 4% premium.
func sampleItems() []BillItem {
	return []BillItem{
		{ItemNo: "1.0", Description: "Earthwork in excavation", Quantity: 10, Rate: 100, Unit: "cum", Level: LevelMain},
		{ItemNo: "a", Description: "Hard rock", Quantity: 5, Rate: 50, Unit: "cum", PreviousQty: 2, Level: LevelSub},
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
}
