package model

// ArticleSuggestion is the matching engine's proposal for one ordered
// article: the pallets to pull, plus everything the UI needs to render
// the editable selection.
type ArticleSuggestion struct {
	ArticleCode    string   `json:"articleCode"`
	TargetPallets  int      `json:"targetPallets"`
	TargetQty      float64  `json:"targetQty"`
	QtyPerPallet   float64  `json:"qtyPerPallet"`
	IsCarton       bool     `json:"isCarton"`
	PalletPriority bool     `json:"palletPriority"`
	SuggestedPIDs  []string `json:"suggestedPids"`
	// Candidates lists every in-stock pallet of the article so the user
	// can swap suggestions for other pallets.
	Candidates []RemovalCandidate `json:"candidates"`
}

// RemovalCandidate is one selectable pallet in the removal tool.
type RemovalCandidate struct {
	PalletID        string  `json:"palletId"`
	Quantity        float64 `json:"quantity"`
	Location        string  `json:"location"`
	LocationDisplay string  `json:"locationDisplay"`
}

// SelectionCheck evaluates a (possibly user-edited) selection for one
// article against its order targets.
type SelectionCheck struct {
	ArticleCode    string  `json:"articleCode"`
	TargetPallets  int     `json:"targetPallets"`
	TargetQty      float64 `json:"targetQty"`
	SelectedCount  int     `json:"selectedCount"`
	SelectedQty    float64 `json:"selectedQty"`
	PalletsMatch   bool    `json:"palletsMatch"`
	QtyMatch       bool    `json:"qtyMatch"`
	PalletPriority bool    `json:"palletPriority"`
	// Satisfied is the success flag the UI colors on: the pallet-count
	// match for pallet-priority articles, the quantity match otherwise.
	Satisfied bool `json:"satisfied"`
}

// SummaryRow is one line of the per-article difference table.
type SummaryRow struct {
	ArticleCode string  `json:"articleCode"`
	OrderedQty  float64 `json:"orderedQty"`
	SelectedQty float64 `json:"selectedQty"`
	Difference  float64 `json:"difference"`
}

// RemovalReport is the full output of one matching run over an order file.
type RemovalReport struct {
	SourceFile    string              `json:"sourceFile"`
	Suggestions   []ArticleSuggestion `json:"suggestions"`
	Checks        []SelectionCheck    `json:"checks"`
	Summary       []SummaryRow        `json:"summary"`
	EmptyArticles []string            `json:"emptyArticles"`
	FinalPIDs     []string            `json:"finalPids"`
}
