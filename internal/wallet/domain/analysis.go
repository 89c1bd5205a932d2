package domain

// TokenHolding is one entry in the analysis token summary.
type TokenHolding struct {
	Symbol  string  `json:"symbol"`
	Balance int64   `json:"balance"`
	Value   float64 `json:"value"`
}

// Activity is one recent-transaction line in the analysis.
type Activity struct {
	Type        string  `json:"type"`
	Timestamp   string  `json:"timestamp"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Analysis is the wallet analytics report. Balances are denominated in HBAR.
type Analysis struct {
	TotalBalance       float64        `json:"totalBalance"`
	BalanceChange24h   float64        `json:"balanceChange24h"`
	TransactionCount   int            `json:"transactionCount"`
	UniqueInteractions int            `json:"uniqueInteractions"`
	TopTokens          []TokenHolding `json:"topTokens"`
	RecentActivity     []Activity     `json:"recentActivity"`
	RiskScore          int            `json:"riskScore"`
	Insights           []string       `json:"insights"`
}
