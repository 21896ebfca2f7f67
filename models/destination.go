package models

// Destination is one row of the destination sheet: a city to watch and the
// price below which subscribers get an alert
type Destination struct {
	ID          int     `json:"id" db:"id"`
	City        string  `json:"city" db:"city"`
	IATACode    string  `json:"iataCode" db:"iata_code"`
	LowestPrice float64 `json:"lowestPrice" db:"lowest_price"`
}

// NeedsIATACode reports whether the code still has to be looked up
func (d Destination) NeedsIATACode() bool {
	return d.IATACode == ""
}

// IsDeal reports whether price is strictly below the destination threshold
func (d Destination) IsDeal(price float64) bool {
	return price < d.LowestPrice
}
