package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"torch-backend/internal/wallet/domain"
	"torch-backend/pkg/mirrornode"

	"github.com/rs/zerolog"
)

const (
	tinybarsPerHbar  = 100_000_000
	txFetchLimit     = 100
	topTokenCount    = 5
	recentActivities = 10
)

// MirrorClient is the subset of the mirror node API the analyzer reads.
type MirrorClient interface {
	Account(ctx context.Context, accountID string) (*mirrornode.Account, error)
	Tokens(ctx context.Context, accountID string) ([]mirrornode.TokenBalance, error)
	NFTs(ctx context.Context, accountID string) ([]mirrornode.NFT, error)
	Transactions(ctx context.Context, accountID string, limit int) ([]mirrornode.Transaction, error)
	Token(ctx context.Context, tokenID string) (*mirrornode.Token, error)
}

// AnalyzerUsecase builds wallet analytics reports from mirror node data.
type AnalyzerUsecase interface {
	Analyze(ctx context.Context, accountID string) *domain.Analysis
}

// analyzerUsecase implements AnalyzerUsecase
type analyzerUsecase struct {
	mirror MirrorClient
	log    zerolog.Logger
	now    func() time.Time
}

// NewAnalyzerUsecase creates a new instance of analyzerUsecase
func NewAnalyzerUsecase(mirror MirrorClient, log zerolog.Logger) AnalyzerUsecase {
	return &analyzerUsecase{
		mirror: mirror,
		log:    log.With().Str("component", "wallet").Logger(),
		now:    time.Now,
	}
}

// Analyze never fails outright: an unresolvable account yields a zeroed
// report with a single explanatory insight, and failures on the secondary
// lookups degrade to empty data.
func (u *analyzerUsecase) Analyze(ctx context.Context, accountID string) *domain.Analysis {
	account, err := u.mirror.Account(ctx, accountID)
	if err != nil {
		u.log.Warn().Err(err).Str("account_id", accountID).Msg("account lookup failed")
		return emptyAnalysis()
	}

	tokens, err := u.mirror.Tokens(ctx, accountID)
	if err != nil {
		u.log.Warn().Err(err).Str("account_id", accountID).Msg("token lookup failed")
		tokens = nil
	}
	nfts, err := u.mirror.NFTs(ctx, accountID)
	if err != nil {
		u.log.Warn().Err(err).Str("account_id", accountID).Msg("nft lookup failed")
		nfts = nil
	}
	txs, err := u.mirror.Transactions(ctx, accountID, txFetchLimit)
	if err != nil {
		u.log.Warn().Err(err).Str("account_id", accountID).Msg("transaction lookup failed")
		txs = nil
	}

	balanceChange := balanceChange24h(txs, accountID, u.now())

	return &domain.Analysis{
		TotalBalance:       float64(account.Balance.Balance) / tinybarsPerHbar,
		BalanceChange24h:   balanceChange,
		TransactionCount:   len(txs),
		UniqueInteractions: uniqueInteractions(txs, accountID),
		TopTokens:          u.topTokens(ctx, tokens),
		RecentActivity:     recentActivity(txs, accountID, u.now()),
		RiskScore:          riskScore(txs, len(tokens)),
		Insights:           insights(txs, len(tokens), len(nfts), balanceChange),
	}
}

func emptyAnalysis() *domain.Analysis {
	return &domain.Analysis{
		TopTokens:      []domain.TokenHolding{},
		RecentActivity: []domain.Activity{},
		Insights:       []string{"Unable to analyze wallet. Please check the account ID."},
	}
}

// ParseConsensusTimestamp converts a mirror node "seconds.nanoseconds"
// consensus timestamp to epoch milliseconds. Malformed input yields 0.
func ParseConsensusTimestamp(ts string) int64 {
	secPart, nanoPart, _ := strings.Cut(ts, ".")
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return 0
	}
	var nanos int64
	if nanoPart != "" {
		nanos, err = strconv.ParseInt(nanoPart, 10, 64)
		if err != nil {
			return 0
		}
	}
	return sec*1000 + nanos/1_000_000
}

// accountAmount returns the queried account's own signed transfer amount
// within a transaction, in tinybars.
func accountAmount(tx mirrornode.Transaction, accountID string) int64 {
	var total int64
	for _, tr := range tx.Transfers {
		if tr.Account == accountID {
			total += tr.Amount
		}
	}
	return total
}

func balanceChange24h(txs []mirrornode.Transaction, accountID string, now time.Time) float64 {
	cutoff := now.Add(-24 * time.Hour).UnixMilli()
	var totalTinybars int64
	for _, tx := range txs {
		if ParseConsensusTimestamp(tx.ConsensusTimestamp) > cutoff {
			totalTinybars += accountAmount(tx, accountID)
		}
	}
	return float64(totalTinybars) / tinybarsPerHbar
}

func uniqueInteractions(txs []mirrornode.Transaction, accountID string) int {
	seen := make(map[string]struct{})
	for _, tx := range txs {
		for _, tr := range tx.Transfers {
			if tr.Account != "" && tr.Account != accountID {
				seen[tr.Account] = struct{}{}
			}
		}
	}
	return len(seen)
}

// topTokens summarizes the first five holdings, resolving a missing symbol
// through the token info endpoint. A failed lookup falls back to the token id.
func (u *analyzerUsecase) topTokens(ctx context.Context, tokens []mirrornode.TokenBalance) []domain.TokenHolding {
	holdings := make([]domain.TokenHolding, 0, topTokenCount)
	for _, t := range tokens {
		if len(holdings) == topTokenCount {
			break
		}
		symbol := t.Symbol
		if symbol == "" {
			if info, err := u.mirror.Token(ctx, t.TokenID); err == nil && info.Symbol != "" {
				symbol = info.Symbol
			} else {
				symbol = t.TokenID
			}
		}
		holdings = append(holdings, domain.TokenHolding{Symbol: symbol, Balance: t.Balance})
	}
	return holdings
}

// recentActivity lists up to ten transactions inside the 24h window.
func recentActivity(txs []mirrornode.Transaction, accountID string, now time.Time) []domain.Activity {
	cutoff := now.Add(-24 * time.Hour).UnixMilli()
	activities := make([]domain.Activity, 0, recentActivities)
	for _, tx := range txs {
		if len(activities) == recentActivities {
			break
		}
		if ParseConsensusTimestamp(tx.ConsensusTimestamp) <= cutoff {
			continue
		}
		amount := float64(accountAmount(tx, accountID)) / tinybarsPerHbar
		description := tx.Name
		if amount > 0 {
			description = fmt.Sprintf("Received %.2f HBAR", amount)
		} else if amount < 0 {
			description = fmt.Sprintf("Sent %.2f HBAR", -amount)
		}
		activities = append(activities, domain.Activity{
			Type:        tx.Name,
			Timestamp:   tx.ConsensusTimestamp,
			Description: description,
			Amount:      amount,
		})
	}
	return activities
}

// txVolume is the sum of the absolute amounts of every transfer in a
// transaction, both sides of each movement included.
func txVolume(tx mirrornode.Transaction) int64 {
	var total int64
	for _, tr := range tx.Transfers {
		if tr.Amount < 0 {
			total -= tr.Amount
		} else {
			total += tr.Amount
		}
	}
	return total
}

// riskScore applies a fixed additive rubric, capped at 100.
func riskScore(txs []mirrornode.Transaction, tokenCount int) int {
	score := 0
	if len(txs) < 10 {
		score += 20
	}
	if len(txs) > 0 {
		failed := 0
		var totalTinybars int64
		for _, tx := range txs {
			if tx.Result != "SUCCESS" {
				failed++
			}
			totalTinybars += txVolume(tx)
		}
		if float64(failed)/float64(len(txs)) > 0.1 {
			score += 30
		}
		meanHbar := float64(totalTinybars) / float64(len(txs)) / tinybarsPerHbar
		if meanHbar > 1000 {
			score += 20
		}
	}
	if tokenCount > 20 {
		score += 15
	}
	if score > 100 {
		score = 100
	}
	return score
}

// insights emits observations in a fixed order so the report reads the same
// between runs with the same data.
func insights(txs []mirrornode.Transaction, tokenCount, nftCount int, balanceChange float64) []string {
	out := []string{}
	if balanceChange > 0 {
		out = append(out, fmt.Sprintf("Wallet balance increased by %.2f HBAR in the last 24 hours", balanceChange))
	} else if balanceChange < 0 {
		out = append(out, fmt.Sprintf("Wallet balance decreased by %.2f HBAR in the last 24 hours", -balanceChange))
	}
	if len(txs) > 50 {
		out = append(out, "High transaction volume indicates an active wallet")
	}
	if tokenCount > 10 {
		out = append(out, fmt.Sprintf("Diversified portfolio with %d different tokens", tokenCount))
	}
	if nftCount > 0 {
		out = append(out, fmt.Sprintf("Holds %d NFTs", nftCount))
	}
	if len(txs) > 0 {
		succeeded := 0
		for _, tx := range txs {
			if tx.Result == "SUCCESS" {
				succeeded++
			}
		}
		successRate := float64(succeeded) / float64(len(txs))
		if successRate < 0.9 {
			out = append(out, fmt.Sprintf("%.1f%% of recent transactions failed", (1-successRate)*100))
		}
	}
	return out
}
