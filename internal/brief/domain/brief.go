package domain

import "time"

// DailyBrief is the generated morning summary for one user.
type DailyBrief struct {
	Greeting    string    `json:"greeting"`
	Brief       string    `json:"brief"`
	GeneratedAt time.Time `json:"generatedAt"`
}
