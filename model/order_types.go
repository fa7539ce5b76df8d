package model

// OrderLine is one row extracted from an uploaded order file.
type OrderLine struct {
	ArticleCode string  `json:"articleCode"`
	Pallets     int     `json:"orderPallets"`
	Quantity    float64 `json:"orderQty"`
	SourceFile  string  `json:"sourceFile"`
}

// OrderAggregate sums all order lines of one article across files and
// manual entries.
type OrderAggregate struct {
	ArticleCode string  `json:"articleCode"`
	Pallets     int     `json:"orderedPallets"`
	Quantity    float64 `json:"orderedQty"`
	Sources     int     `json:"sources"`
	Detail      string  `json:"detail"`
}

// QtyPerPallet is the order's implied per-pallet quantity, 0 when the
// order names no pallets.
func (a OrderAggregate) QtyPerPallet() float64 {
	if a.Pallets <= 0 {
		return 0
	}
	return a.Quantity / float64(a.Pallets)
}

// OrderParseError reports one order file that could not be used. Failures
// are isolated per file: other files keep loading.
type OrderParseError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}
