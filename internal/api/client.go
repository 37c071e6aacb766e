package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client represents the Mercado Bitcoin API client. It can serve the public
// market-data endpoints, the private TAPI endpoints, or both, depending on
// which constructor built it. After construction the client holds only
// immutable configuration and is safe for concurrent use.
type Client struct {
	publicURL  string
	privateURL string
	identifier string
	secret     string
	httpClient *http.Client
	nonces     *nonceSource
}

// Option customizes a client at construction time.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithNoncePrecision selects the timestamp precision used for tapi_nonce.
// Milliseconds is the default; the nanosecond variant exists for TAPI
// deployments that expect it.
func WithNoncePrecision(p NoncePrecision) Option {
	return func(c *Client) {
		c.nonces.precision = p
	}
}

// NewClient creates a client that can call both public and private endpoints.
func NewClient(publicURL, privateURL, identifier, secret string, opts ...Option) *Client {
	c := &Client{
		publicURL:  strings.TrimRight(publicURL, "/"),
		privateURL: privateURL,
		identifier: identifier,
		secret:     secret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		nonces:     newNonceSource(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewPublicClient creates a client restricted to the public market-data
// endpoints. Private operations on it return ErrNotConfigured.
func NewPublicClient(publicURL string, opts ...Option) *Client {
	return NewClient(publicURL, "", "", "", opts...)
}

// NewPrivateClient creates a client restricted to the private TAPI endpoints.
// Public operations on it return ErrNotConfigured.
func NewPrivateClient(privateURL, identifier, secret string, opts ...Option) *Client {
	return NewClient("", privateURL, identifier, secret, opts...)
}

// doPublic performs an unauthenticated GET and decodes the JSON body.
func (c *Client) doPublic(path string, result interface{}) error {
	if c.publicURL == "" {
		return fmt.Errorf("public endpoint %s: %w", path, ErrNotConfigured)
	}

	resp, err := c.httpClient.Get(c.publicURL + path)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error [%d]: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response body: %w", err)
	}
	return nil
}

// envelope is the outer object wrapping every private TAPI response. The
// payload is only unmarshaled after the status code has been checked.
type envelope struct {
	ResponseData json.RawMessage `json:"response_data"`
	StatusCode   Status          `json:"status_code"`
}

// doPrivate signs the ordered parameter list, performs a form-encoded POST
// against the private endpoint and decodes the response envelope. The exact
// byte string that was signed is sent as the request body.
func (c *Client) doPrivate(params Params, result interface{}) error {
	if c.privateURL == "" || c.identifier == "" || c.secret == "" {
		return fmt.Errorf("private method %s: %w", params.Method(), ErrNotConfigured)
	}

	body := params.Encode()
	signature := Sign(c.secret, params)

	req, err := http.NewRequest(http.MethodPost, c.privateURL, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("TAPI-ID", c.identifier)
	req.Header.Set("TAPI-MAC", signature)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("failed to parse response envelope: %w", err)
	}
	if env.StatusCode != StatusSuccess {
		return &APIError{Status: env.StatusCode}
	}

	if result != nil && env.ResponseData != nil {
		if err := json.Unmarshal(env.ResponseData, result); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return nil
}

// Ticker retrieves the current ticker for a currency symbol (BTC, ETH, LTC...).
func (c *Client) Ticker(currency string) (*Ticker, error) {
	var resp tickerResponse
	if err := c.doPublic(fmt.Sprintf("/%s/ticker", currency), &resp); err != nil {
		return nil, fmt.Errorf("failed to get ticker: %w", err)
	}
	return &resp.Ticker, nil
}

// DaySummary retrieves the aggregate statistics for one calendar day. The
// path carries year, month and day as plain decimal segments, no zero
// padding.
func (c *Client) DaySummary(currency string, date time.Time) (*DaySummary, error) {
	path := fmt.Sprintf("/%s/day-summary/%d/%d/%d",
		currency, date.Year(), int(date.Month()), date.Day())

	var summary DaySummary
	if err := c.doPublic(path, &summary); err != nil {
		return nil, fmt.Errorf("failed to get day summary: %w", err)
	}
	return &summary, nil
}

// Orderbook retrieves the authenticated order book for a coin pair. When full
// is true the complete book is returned instead of the default top slice.
func (c *Client) Orderbook(coinPair string, full bool) (*Orderbook, error) {
	params := Params{
		{"tapi_method", "list_orderbook"},
		{"tapi_nonce", c.nonces.Next()},
		{"coin_pair", coinPair},
		{"full", strconv.FormatBool(full)},
	}

	var resp orderbookResponse
	if err := c.doPrivate(params, &resp); err != nil {
		return nil, fmt.Errorf("failed to list orderbook: %w", err)
	}
	return &resp.Orderbook, nil
}

// placeOrder places a limit order of the given side. Quantity and limit price
// are rendered as fixed-point strings (8 and 2 decimal places) before
// signing, matching the precision the exchange expects.
func (c *Client) placeOrder(side OrderSide, coinPair string, quantity, limitPrice float64) (*Order, error) {
	params := Params{
		{"tapi_method", side.placeMethod()},
		{"tapi_nonce", c.nonces.Next()},
		{"coin_pair", coinPair},
		{"quantity", FormatQuantity(quantity)},
		{"limit_price", FormatPrice(limitPrice)},
	}

	var resp orderResponse
	if err := c.doPrivate(params, &resp); err != nil {
		return nil, fmt.Errorf("failed to place %s order: %w", side, err)
	}
	return &resp.Order, nil
}

// PlaceBuyOrder places a limit buy order.
func (c *Client) PlaceBuyOrder(coinPair string, quantity, limitPrice float64) (*Order, error) {
	return c.placeOrder(OrderSideBuy, coinPair, quantity, limitPrice)
}

// PlaceSellOrder places a limit sell order.
func (c *Client) PlaceSellOrder(coinPair string, quantity, limitPrice float64) (*Order, error) {
	return c.placeOrder(OrderSideSell, coinPair, quantity, limitPrice)
}

// GetOrder retrieves a single order by id.
func (c *Client) GetOrder(coinPair string, orderID int64) (*Order, error) {
	params := Params{
		{"tapi_method", "get_order"},
		{"tapi_nonce", c.nonces.Next()},
		{"coin_pair", coinPair},
		{"order_id", strconv.FormatInt(orderID, 10)},
	}

	var resp orderResponse
	if err := c.doPrivate(params, &resp); err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	return &resp.Order, nil
}

// CancelOrder cancels an open order and returns its final state.
func (c *Client) CancelOrder(coinPair string, orderID int64) (*Order, error) {
	params := Params{
		{"tapi_method", "cancel_order"},
		{"tapi_nonce", c.nonces.Next()},
		{"coin_pair", coinPair},
		{"order_id", strconv.FormatInt(orderID, 10)},
	}

	var resp orderResponse
	if err := c.doPrivate(params, &resp); err != nil {
		return nil, fmt.Errorf("failed to cancel order %d: %w", orderID, err)
	}
	return &resp.Order, nil
}

// ListOrders lists the account orders for a coin pair.
func (c *Client) ListOrders(coinPair string) ([]Order, error) {
	params := Params{
		{"tapi_method", "list_orders"},
		{"tapi_nonce", c.nonces.Next()},
		{"coin_pair", coinPair},
	}

	var resp listOrdersResponse
	if err := c.doPrivate(params, &resp); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return resp.Orders, nil
}

// GetAccountInfo retrieves the account balances and withdrawal limits.
func (c *Client) GetAccountInfo() (*AccountInfo, error) {
	params := Params{
		{"tapi_method", "get_account_info"},
		{"tapi_nonce", c.nonces.Next()},
	}

	var info AccountInfo
	if err := c.doPrivate(params, &info); err != nil {
		return nil, fmt.Errorf("failed to get account info: %w", err)
	}
	return &info, nil
}
