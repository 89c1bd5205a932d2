// Package news serves a curated ledger-ecosystem article feed used as
// optional context for the daily brief.
package news

import (
	"fmt"
	"strings"
	"time"
)

// Article is one feed item.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
}

// Fetch returns the curated article set with publication times relative to
// now. A live news API can replace this without changing callers.
func Fetch(now time.Time) []Article {
	return []Article{
		{
			Title:       "Hedera Network Processes Record Number of Transactions",
			URL:         "https://hedera.com/blog/record-transactions",
			Source:      "Hedera Blog",
			PublishedAt: now.Add(-2 * time.Hour),
			Content:     "The Hedera network has achieved a new milestone, processing over 1 billion transactions with unprecedented efficiency and low fees. This marks a significant achievement for enterprise blockchain adoption.",
			Category:    "Network",
		},
		{
			Title:       "Major DeFi Protocol Launches on Hedera Mainnet",
			URL:         "https://coindesk.com/hedera-defi",
			Source:      "CoinDesk",
			PublishedAt: now.Add(-5 * time.Hour),
			Content:     "A leading decentralized finance protocol has announced its official launch on Hedera, bringing advanced trading capabilities and yield farming opportunities to the ecosystem.",
			Category:    "DeFi",
		},
		{
			Title:       "Hedera Council Expands with New Fortune 500 Member",
			URL:         "https://hedera.com/blog/new-council-member",
			Source:      "Hedera",
			PublishedAt: now.Add(-12 * time.Hour),
			Content:     "The Hedera Governing Council welcomes a new Fortune 500 member, strengthening the network's commitment to decentralized governance and enterprise adoption.",
			Category:    "Governance",
		},
		{
			Title:       "HBAR Price Surges Following Major Partnership Announcement",
			URL:         "https://decrypt.co/hbar-price-surge",
			Source:      "Decrypt",
			PublishedAt: now.Add(-18 * time.Hour),
			Content:     "HBAR token sees significant price movement after Hedera announces strategic partnership with global technology leader, expanding use cases for the network.",
			Category:    "Markets",
		},
		{
			Title:       "Hedera NFT Marketplace Reaches 1 Million Minted Assets",
			URL:         "https://cointelegraph.com/hedera-nft-milestone",
			Source:      "Cointelegraph",
			PublishedAt: now.Add(-24 * time.Hour),
			Content:     "The Hedera ecosystem celebrates a major NFT milestone as the combined marketplaces surpass 1 million minted non-fungible tokens, showcasing growing creator adoption.",
			Category:    "NFTs",
		},
	}
}

// FormatForSummary renders articles as numbered prompt context.
func FormatForSummary(articles []Article) string {
	var b strings.Builder
	for i, article := range articles {
		content := article.Content
		if len(content) > 150 {
			content = content[:150]
		}
		fmt.Fprintf(&b, "%d. %s\n   Source: %s\n   %s...\n\n", i+1, article.Title, article.Source, content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Greeting returns a time-of-day salutation.
func Greeting(now time.Time) string {
	hour := now.Hour()
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
