// Package mirrornode is a typed read-only client for a Hedera mirror node
// REST API (account, token, NFT and transaction lookups).
package mirrornode

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Account is the mirror node account snapshot.
type Account struct {
	Account string `json:"account"`
	Balance struct {
		Balance int64 `json:"balance"`
	} `json:"balance"`
}

// TokenBalance is one fungible token held by an account.
type TokenBalance struct {
	TokenID string `json:"token_id"`
	Balance int64  `json:"balance"`
	Symbol  string `json:"symbol,omitempty"`
	Name    string `json:"name,omitempty"`
}

// NFT is one non-fungible token held by an account.
type NFT struct {
	TokenID      string `json:"token_id"`
	SerialNumber int64  `json:"serial_number"`
}

// Transfer is one signed balance movement within a transaction, in tinybars.
type Transfer struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

// TokenTransfer is one token movement within a transaction.
type TokenTransfer struct {
	TokenID string `json:"token_id"`
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

// Transaction is one ledger transaction touching the queried account.
// ConsensusTimestamp is a "seconds.nanoseconds" string.
type Transaction struct {
	ConsensusTimestamp string          `json:"consensus_timestamp"`
	TransactionID      string          `json:"transaction_id"`
	Name               string          `json:"name"`
	Result             string          `json:"result"`
	Transfers          []Transfer      `json:"transfers"`
	TokenTransfers     []TokenTransfer `json:"token_transfers"`
}

// Token is the token info record.
type Token struct {
	TokenID     string `json:"token_id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	TotalSupply string `json:"total_supply"`
}

type tokensPage struct {
	Tokens []TokenBalance `json:"tokens"`
}

type nftsPage struct {
	Nfts []NFT `json:"nfts"`
}

type transactionsPage struct {
	Transactions []Transaction `json:"transactions"`
}

// Client queries a mirror node base URL.
type Client struct {
	rc *resty.Client
}

// New creates a mirror node client.
func New(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{rc: rc}
}

// Account fetches the account snapshot.
func (c *Client) Account(ctx context.Context, accountID string) (*Account, error) {
	var account Account
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&account).
		Get(fmt.Sprintf("/api/v1/accounts/%s", accountID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mirrornode: account %s: %s", accountID, resp.Status())
	}
	return &account, nil
}

// Tokens lists the fungible tokens held by an account.
func (c *Client) Tokens(ctx context.Context, accountID string) ([]TokenBalance, error) {
	var page tokensPage
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&page).
		Get(fmt.Sprintf("/api/v1/accounts/%s/tokens", accountID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mirrornode: tokens of %s: %s", accountID, resp.Status())
	}
	return page.Tokens, nil
}

// NFTs lists the NFTs held by an account.
func (c *Client) NFTs(ctx context.Context, accountID string) ([]NFT, error) {
	var page nftsPage
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&page).
		Get(fmt.Sprintf("/api/v1/accounts/%s/nfts", accountID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mirrornode: nfts of %s: %s", accountID, resp.Status())
	}
	return page.Nfts, nil
}

// Transactions fetches the most recent transactions for an account, newest
// first.
func (c *Client) Transactions(ctx context.Context, accountID string, limit int) ([]Transaction, error) {
	var page transactionsPage
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"account.id": accountID,
			"limit":      fmt.Sprintf("%d", limit),
			"order":      "desc",
		}).
		SetResult(&page).
		Get("/api/v1/transactions")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mirrornode: transactions of %s: %s", accountID, resp.Status())
	}
	return page.Transactions, nil
}

// Token fetches token info.
func (c *Client) Token(ctx context.Context, tokenID string) (*Token, error) {
	var token Token
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&token).
		Get(fmt.Sprintf("/api/v1/tokens/%s", tokenID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mirrornode: token %s: %s", tokenID, resp.Status())
	}
	return &token, nil
}
