package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Block-explorer API client (Etherscan-compatible).
//
// All chain data in the engine flows through this client: account
// balances, normal/internal transaction lists, ERC-20 transfers and
// raw proxy lookups. Free-tier explorer keys are limited to 5 req/s,
// so the client enforces a fixed inter-request delay.

// Config holds the explorer connection settings.
type Config struct {
	Network      string        // "ethereum", "bsc" or "polygon"
	APIKey       string
	BaseURL      string        // optional override, used by tests
	RequestDelay time.Duration // minimum gap between requests
	HTTPClient   *http.Client
}

// Client is a rate-limited HTTP client for Etherscan-style APIs.
type Client struct {
	baseURL string
	apiKey  string
	network string
	delay   time.Duration
	http    *http.Client

	mu       sync.Mutex
	lastCall time.Time
}

var networkBaseURLs = map[string]string{
	"ethereum": "https://api.etherscan.io/api",
	"bsc":      "https://api.bscscan.com/api",
	"polygon":  "https://api.polygonscan.com/api",
}

// NewClient creates a configured explorer client. Unknown networks fall
// back to the Ethereum mainnet API.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = networkBaseURLs[cfg.Network]
		if base == "" {
			base = networkBaseURLs["ethereum"]
		}
	}
	delay := cfg.RequestDelay
	if delay == 0 {
		delay = 200 * time.Millisecond
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	network := cfg.Network
	if network == "" {
		network = "ethereum"
	}
	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		network: network,
		delay:   delay,
		http:    httpClient,
	}
}

// Network returns the configured chain name.
func (c *Client) Network() string { return c.network }

// envelope is the standard explorer response wrapper. Proxy-module calls
// omit status/message and return a bare JSON-RPC result.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (c *Client) get(ctx context.Context, params url.Values) (*envelope, error) {
	c.throttle()

	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("explorer returned HTTP %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("explorer response decode failed: %w", err)
	}
	return &env, nil
}

// throttle enforces the minimum inter-request delay.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if wait := c.delay - time.Since(c.lastCall); wait > 0 {
		time.Sleep(wait)
	}
	c.lastCall = time.Now()
}

// rawListTx is a row of the account txlist / txlistinternal / tokentx modules.
// The explorer returns every numeric field as a decimal string.
type rawListTx struct {
	Hash        string `json:"hash"`
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	GasUsed     string `json:"gasUsed"`
	IsError     string `json:"isError"`
	TokenSymbol string `json:"tokenSymbol"`
}

func (r rawListTx) toTransfer(internal bool) models.Transfer {
	return models.Transfer{
		Hash:        r.Hash,
		BlockNumber: parseInt64(r.BlockNumber),
		TimeStamp:   parseInt64(r.TimeStamp),
		From:        models.NormalizeAddress(r.From),
		To:          models.NormalizeAddress(r.To),
		Value:       parseBig(r.Value),
		GasUsed:     parseInt64(r.GasUsed),
		IsError:     r.IsError == "1",
		Internal:    internal,
		TokenSymbol: r.TokenSymbol,
	}
}

func (c *Client) accountList(ctx context.Context, action, address string, internal bool) ([]models.Transfer, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", action)
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("sort", "desc")

	env, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	// Status "0" with an empty result means "no transactions found",
	// which is a valid answer, not an error.
	if env.Status != "1" {
		if strings.Contains(strings.ToLower(env.Message), "no transactions") {
			return []models.Transfer{}, nil
		}
		return nil, fmt.Errorf("explorer %s error: %s", action, env.Message)
	}

	var rows []rawListTx
	if err := json.Unmarshal(env.Result, &rows); err != nil {
		return nil, fmt.Errorf("explorer %s result decode failed: %w", action, err)
	}

	transfers := make([]models.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, row.toTransfer(internal))
	}
	return transfers, nil
}

// TransactionHistory returns the normal transaction list for an address,
// newest first.
func (c *Client) TransactionHistory(ctx context.Context, address string) ([]models.Transfer, error) {
	return c.accountList(ctx, "txlist", address, false)
}

// InternalTransactions returns contract-internal value transfers.
func (c *Client) InternalTransactions(ctx context.Context, address string) ([]models.Transfer, error) {
	return c.accountList(ctx, "txlistinternal", address, true)
}

// TokenTransfers returns ERC-20 transfer events for an address.
func (c *Client) TokenTransfers(ctx context.Context, address string) ([]models.Transfer, error) {
	return c.accountList(ctx, "tokentx", address, false)
}

// Balance fetches the current wei balance of an address.
func (c *Client) Balance(ctx context.Context, address string) (models.Balance, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "balance")
	params.Set("address", address)
	params.Set("tag", "latest")

	env, err := c.get(ctx, params)
	if err != nil {
		return models.Balance{}, err
	}
	if env.Status != "1" {
		return models.Balance{}, fmt.Errorf("explorer balance error: %s", env.Message)
	}

	var raw string
	if err := json.Unmarshal(env.Result, &raw); err != nil {
		return models.Balance{}, fmt.Errorf("explorer balance decode failed: %w", err)
	}
	wei := parseBig(raw)
	return models.Balance{
		Address:   models.NormalizeAddress(address),
		Wei:       wei,
		Ether:     models.WeiToEther(wei),
		FetchedAt: time.Now().Unix(),
	}, nil
}

// rawProxyTx is the JSON-RPC transaction object returned by the proxy module.
// Quantities are 0x-prefixed hex.
type rawProxyTx struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	Gas         string `json:"gas"`
	GasPrice    string `json:"gasPrice"`
	Input       string `json:"input"`
	BlockNumber string `json:"blockNumber"`
}

// TransactionByHash fetches a transaction, its receipt status and the
// containing block's timestamp. Returns nil when the hash is unknown.
func (c *Client) TransactionByHash(ctx context.Context, hash string) (*models.TxDetail, error) {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_getTransactionByHash")
	params.Set("txhash", hash)

	env, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return nil, nil
	}

	var raw rawProxyTx
	if err := json.Unmarshal(env.Result, &raw); err != nil {
		return nil, fmt.Errorf("explorer tx decode failed: %w", err)
	}

	wei := parseHexBig(raw.Value)
	detail := &models.TxDetail{
		Hash:         raw.Hash,
		From:         models.NormalizeAddress(raw.From),
		To:           models.NormalizeAddress(raw.To),
		Value:        wei,
		ValueEther:   models.WeiToEther(wei),
		Gas:          parseHexInt64(raw.Gas),
		GasPriceGwei: float64(parseHexInt64(raw.GasPrice)) / 1e9,
		Input:        raw.Input,
		BlockNumber:  parseHexInt64(raw.BlockNumber),
	}

	detail.Succeeded = c.receiptSucceeded(ctx, hash)
	if detail.BlockNumber > 0 {
		detail.TimeStamp = c.blockTimestamp(ctx, detail.BlockNumber)
	}
	return detail, nil
}

func (c *Client) receiptSucceeded(ctx context.Context, hash string) bool {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_getTransactionReceipt")
	params.Set("txhash", hash)

	env, err := c.get(ctx, params)
	if err != nil {
		return false
	}
	var receipt struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Result, &receipt); err != nil {
		return false
	}
	return receipt.Status == "0x1"
}

func (c *Client) blockTimestamp(ctx context.Context, blockNumber int64) int64 {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_getBlockByNumber")
	params.Set("tag", "0x"+strconv.FormatInt(blockNumber, 16))
	params.Set("boolean", "false")

	env, err := c.get(ctx, params)
	if err != nil {
		return 0
	}
	var block struct {
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(env.Result, &block); err != nil {
		return 0
	}
	return parseHexInt64(block.Timestamp)
}

// IsContract reports whether an address has deployed code.
func (c *Client) IsContract(ctx context.Context, address string) (bool, error) {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_getCode")
	params.Set("address", address)
	params.Set("tag", "latest")

	env, err := c.get(ctx, params)
	if err != nil {
		return false, err
	}
	var code string
	if err := json.Unmarshal(env.Result, &code); err != nil {
		return false, fmt.Errorf("explorer code decode failed: %w", err)
	}
	return code != "" && code != "0x", nil
}

// ContractName returns the verified contract name for an address, or ""
// when the contract source is not verified on the explorer.
func (c *Client) ContractName(ctx context.Context, address string) (string, error) {
	params := url.Values{}
	params.Set("module", "contract")
	params.Set("action", "getsourcecode")
	params.Set("address", address)

	env, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}
	if env.Status != "1" {
		return "", fmt.Errorf("explorer getsourcecode error: %s", env.Message)
	}

	var rows []struct {
		ContractName string `json:"ContractName"`
	}
	if err := json.Unmarshal(env.Result, &rows); err != nil {
		return "", fmt.Errorf("explorer source decode failed: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].ContractName, nil
}

func parseBig(s string) *big.Int {
	if s == "" {
		return big.NewInt(0)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return big.NewInt(0)
	}
	return v
}

func parseHexBig(s string) *big.Int {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return big.NewInt(0)
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return big.NewInt(0)
	}
	return v
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseHexInt64(s string) int64 {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return 0
	}
	v, _ := strconv.ParseInt(s, 16, 64)
	return v
}
