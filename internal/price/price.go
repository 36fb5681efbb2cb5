package price

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL  = "https://api.coingecko.com/api/v3"
	DefaultCurrency = "inr"
	// TrendDays is the window of the market chart endpoint.
	TrendDays = 7
)

var (
	ErrNotFound    = errors.New("asset not found")
	ErrUnavailable = errors.New("pricing service unavailable")
	ErrEmptySeries = errors.New("empty price series")
	ErrZeroBase    = errors.New("series starts at zero price")
)

// Source is the pricing service as seen by the commands, the alert monitor and the summary job.
type Source interface {
	GetPrice(ctx context.Context, asset string) (float64, error)
	GetWeeklyChangePercent(ctx context.Context, asset string) (float64, error)
	GetMarketSnapshot(ctx context.Context, asset string) (*MarketSnapshot, error)
	GetTrendSeries(ctx context.Context, asset string) (TrendSeries, error)
}

// MarketSnapshot represents the detailed market data of a cryptocurrency
type MarketSnapshot struct {
	Price     float64 `json:"price"`
	MarketCap float64 `json:"market_cap"`
	Volume    float64 `json:"volume"`
	Rank      int64   `json:"rank"`
}

type Point struct {
	TimestampMs int64   `json:"timestamp_ms"`
	Price       float64 `json:"price"`
}

// TrendSeries is ordered by timestamp, oldest first.
type TrendSeries []Point

type ClientConfig struct {
	BaseURL  string
	Currency string
	APIKey   string
	// Timeout of a single request, zero means none.
	Timeout time.Duration
}

// Client talks to a CoinGecko compatible REST API.
type Client struct {
	baseURL  string
	currency string
	apiKey   string
	http     *http.Client
}

var _ Source = (*Client)(nil)

func NewClient(c ClientConfig) *Client {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	return &Client{
		baseURL:  strings.TrimRight(c.BaseURL, "/"),
		currency: strings.ToLower(c.Currency),
		apiKey:   c.APIKey,
		http:     &http.Client{Timeout: c.Timeout},
	}
}

// Currency returns the quote currency prices are reported in.
func (c *Client) Currency() string {
	return c.currency
}

// GetPrice retrieves the current price of asset in the quote currency
func (c *Client) GetPrice(ctx context.Context, asset string) (float64, error) {
	q := url.Values{}
	q.Set("ids", asset)
	q.Set("vs_currencies", c.currency)

	body, err := c.get(ctx, "/simple/price", q)
	if err != nil {
		return 0, errors.Wrapf(err, "price of %s", asset)
	}

	v := gjson.GetBytes(body, gjson.Escape(asset)+"."+c.currency)
	if v.Type != gjson.Number {
		return 0, errors.Wrapf(ErrNotFound, "price of %s", asset)
	}
	return v.Float(), nil
}

// GetWeeklyChangePercent fetches the trend series and returns its percent change.
func (c *Client) GetWeeklyChangePercent(ctx context.Context, asset string) (float64, error) {
	series, err := c.GetTrendSeries(ctx, asset)
	if err != nil {
		return 0, err
	}
	pct, err := ChangePercent(series)
	return pct, errors.Wrapf(err, "weekly change of %s", asset)
}

// GetMarketSnapshot fetches price, market cap, volume and rank of asset.
func (c *Client) GetMarketSnapshot(ctx context.Context, asset string) (*MarketSnapshot, error) {
	body, err := c.get(ctx, "/coins/"+url.PathEscape(asset), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "market data of %s", asset)
	}

	data := gjson.GetBytes(body, "market_data")
	if !data.Exists() || !data.IsObject() {
		return nil, errors.Wrapf(ErrNotFound, "market data of %s", asset)
	}

	fields := gjson.GetManyBytes(body,
		"market_data.current_price."+c.currency,
		"market_data.market_cap."+c.currency,
		"market_data.total_volume."+c.currency,
	)
	for _, f := range fields {
		if f.Type != gjson.Number {
			return nil, errors.Wrapf(ErrNotFound, "market data of %s", asset)
		}
	}

	// A null or missing rank is reported as 0, which formats as N/A.
	snapshot := &MarketSnapshot{
		Price:     fields[0].Float(),
		MarketCap: fields[1].Float(),
		Volume:    fields[2].Float(),
		Rank:      gjson.GetBytes(body, "market_cap_rank").Int(),
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("market snapshot for %s: %s", asset, spew.Sdump(snapshot))
	}
	return snapshot, nil
}

// GetTrendSeries fetches the 7 day market chart of asset.
func (c *Client) GetTrendSeries(ctx context.Context, asset string) (TrendSeries, error) {
	q := url.Values{}
	q.Set("vs_currency", c.currency)
	q.Set("days", fmt.Sprintf("%d", TrendDays))

	body, err := c.get(ctx, "/coins/"+url.PathEscape(asset)+"/market_chart", q)
	if err != nil {
		return nil, errors.Wrapf(err, "market chart of %s", asset)
	}

	prices := gjson.GetBytes(body, "prices")
	if !prices.Exists() || !prices.IsArray() {
		return nil, errors.Wrapf(ErrNotFound, "market chart of %s", asset)
	}

	var series TrendSeries
	for _, p := range prices.Array() {
		pair := p.Array()
		if len(pair) < 2 {
			continue
		}
		series = append(series, Point{TimestampMs: pair[0].Int(), Price: pair[1].Float()})
	}
	return series, nil
}

// ChangePercent returns (last-first)/first*100 rounded to two decimals.
func ChangePercent(series TrendSeries) (float64, error) {
	if len(series) == 0 {
		return 0, ErrEmptySeries
	}
	first, last := series[0].Price, series[len(series)-1].Price
	if first == 0 {
		return 0, ErrZeroBase
	}
	return math.Round((last-first)/first*100*100) / 100, nil
}

// IsNotFound reports whether err means the service does not know the asset, as opposed to
// a failed request.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmptySeries)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "read body: %v", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrapf(ErrNotFound, "status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.Wrapf(ErrUnavailable, "status %d", resp.StatusCode)
	case !gjson.ValidBytes(body):
		return nil, errors.Wrap(ErrUnavailable, "malformed response body")
	}

	log.Debugf("GET %s -> %d (%d bytes)", path, resp.StatusCode, len(body))
	return body, nil
}

const (
	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
	OutcomeUndefined   = "undefined"
)

// Outcome classifies the result of a lookup for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeFound
	case IsNotFound(err):
		return OutcomeNotFound
	case errors.Is(err, ErrZeroBase):
		return OutcomeUndefined
	default:
		return OutcomeUnavailable
	}
}

// LogLookup records a failed lookup. Unknown assets are expected user input and logged at
// debug, service failures at warn.
func LogLookup(op, asset string, err error) {
	if err == nil {
		return
	}
	entry := log.WithFields(log.Fields{
		"operation": op,
		"asset":     asset,
		"outcome":   Outcome(err),
	})
	if Outcome(err) == OutcomeUnavailable {
		entry.Warnf("price lookup failed: %v", err)
		return
	}
	entry.Debugf("price lookup returned nothing: %v", err)
}
