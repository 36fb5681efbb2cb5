package commands

import (
	"context"
	"crypto-relay-bot/internal/alert"
	"crypto-relay-bot/internal/price"
	"crypto-relay-bot/internal/types"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const botID = 777

type fakeSource struct {
	prices    map[string]float64
	snapshots map[string]*price.MarketSnapshot
	series    map[string]price.TrendSeries
	err       error
	calls     []string
}

func (f *fakeSource) GetPrice(_ context.Context, asset string) (float64, error) {
	f.calls = append(f.calls, asset)
	if f.err != nil {
		return 0, f.err
	}
	p, ok := f.prices[asset]
	if !ok {
		return 0, price.ErrNotFound
	}
	return p, nil
}

func (f *fakeSource) GetWeeklyChangePercent(_ context.Context, asset string) (float64, error) {
	s, ok := f.series[asset]
	if !ok {
		return 0, price.ErrNotFound
	}
	return price.ChangePercent(s)
}

func (f *fakeSource) GetMarketSnapshot(_ context.Context, asset string) (*price.MarketSnapshot, error) {
	s, ok := f.snapshots[asset]
	if !ok {
		return nil, price.ErrNotFound
	}
	return s, nil
}

func (f *fakeSource) GetTrendSeries(_ context.Context, asset string) (price.TrendSeries, error) {
	s, ok := f.series[asset]
	if !ok {
		return nil, price.ErrNotFound
	}
	return s, nil
}

type fakeRenderer struct {
	rendered []string
	err      error
}

func (f *fakeRenderer) Render(asset string, _ price.TrendSeries) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.rendered = append(f.rendered, asset)
	return "/tmp/" + asset + "_trend.png", nil
}

func newRouter(src *fakeSource) (*Router, *fakeRenderer) {
	rr := &fakeRenderer{}
	return &Router{SelfID: botID, Prices: src, Alerts: alert.NewRegistry(), Charts: rr}, rr
}

func msg(content string) Message {
	return Message{Destination: -100, ChannelName: "general", AuthorID: 1, Content: content}
}

func texts(replies []Reply) []string {
	var out []string
	for _, r := range replies {
		out = append(out, r.Text)
	}
	return out
}

func TestCryptoRepliesPerAssetInOrder(t *testing.T) {
	src := &fakeSource{prices: map[string]float64{"bitcoin": 5200000}}
	r, _ := newRouter(src)

	replies := r.Handle(context.Background(), msg("!crypto bitcoin ethereum"))

	assert.Equal(t, []string{
		"The current price of bitcoin is ₹5200000 INR",
		"Could not find price for ethereum. Please try again.",
	}, texts(replies))
	assert.Equal(t, []string{"bitcoin", "ethereum"}, src.calls)
}

func TestCryptoServiceFailureLooksLikeNotFound(t *testing.T) {
	src := &fakeSource{err: price.ErrUnavailable}
	r, _ := newRouter(src)

	replies := r.Handle(context.Background(), msg("!crypto bitcoin"))
	assert.Equal(t, []string{"Could not find price for bitcoin. Please try again."}, texts(replies))
}

func TestCryptoWithoutAssets(t *testing.T) {
	r, _ := newRouter(&fakeSource{})

	replies := r.Handle(context.Background(), msg("!crypto"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Please specify one or more cryptocurrencies")
}

func TestSetAlert(t *testing.T) {
	r, _ := newRouter(&fakeSource{})

	replies := r.Handle(context.Background(), msg("!setalert bitcoin 5000000"))
	assert.Equal(t, []string{"Alert set for bitcoin at ₹5000000 INR"}, texts(replies))

	a, ok := r.Alerts.Get("bitcoin")
	require.True(t, ok)
	assert.Equal(t, types.Destination(-100), a.Destination)
	assert.Equal(t, 5000000.0, a.Target)

	r.Handle(context.Background(), msg("!setalert bitcoin 6000000.5"))
	a, _ = r.Alerts.Get("bitcoin")
	assert.Equal(t, 6000000.5, a.Target)
	assert.Equal(t, 1, r.Alerts.Len())
}

func TestSetAlertMalformed(t *testing.T) {
	for _, content := range []string{
		"!setalert bitcoin abc",
		"!setalert bitcoin",
		"!setalert",
		"!setalert bitcoin 100 200",
		"!setalert bitcoin NaN",
		"!setalert bitcoin +Inf",
	} {
		t.Run(content, func(t *testing.T) {
			r, _ := newRouter(&fakeSource{})

			replies := r.Handle(context.Background(), msg(content))
			assert.Equal(t, []string{"Invalid command. Use `!setalert <crypto> <target_price>`."}, texts(replies))
			assert.Zero(t, r.Alerts.Len())
		})
	}
}

func TestInfo(t *testing.T) {
	src := &fakeSource{snapshots: map[string]*price.MarketSnapshot{
		"bitcoin": {Price: 5200000, MarketCap: 1.02e14, Volume: 2.5e12, Rank: 1},
	}}
	r, _ := newRouter(src)

	replies := r.Handle(context.Background(), msg("!info bitcoin"))
	assert.Equal(t, []string{"Price: ₹5,200,000\nMarket Cap: ₹102 T\nVolume: ₹2.5 T\nRank: 1"}, texts(replies))

	replies = r.Handle(context.Background(), msg("!info dogewifhat"))
	assert.Equal(t, []string{"Cryptocurrency not found."}, texts(replies))

	replies = r.Handle(context.Background(), msg("!info"))
	assert.Equal(t, []string{"Please specify a cryptocurrency, e.g., `!info bitcoin`"}, texts(replies))
}

func TestFormatSnapshotWithoutRank(t *testing.T) {
	s := FormatSnapshot(&price.MarketSnapshot{Price: 0.5, MarketCap: 950, Volume: 12000})
	assert.Equal(t, "Price: ₹0.500000\nMarket Cap: ₹950\nVolume: ₹12 K\nRank: N/A", s)
}

func TestTrend(t *testing.T) {
	src := &fakeSource{series: map[string]price.TrendSeries{
		"bitcoin": {{TimestampMs: 1, Price: 100}, {TimestampMs: 2, Price: 104}},
		"empty":   {},
		"zero":    {{TimestampMs: 1, Price: 0}, {TimestampMs: 2, Price: 5}},
	}}
	r, rr := newRouter(src)

	replies := r.Handle(context.Background(), msg("!trend bitcoin"))
	require.Len(t, replies, 1)
	assert.Equal(t, "/tmp/bitcoin_trend.png", replies[0].FilePath)
	assert.Equal(t, "Bitcoin 7d change: +4.00%", replies[0].Text)

	replies = r.Handle(context.Background(), msg("!trend zero"))
	require.Len(t, replies, 1)
	assert.Equal(t, "/tmp/zero_trend.png", replies[0].FilePath)
	assert.Equal(t, "Zero", replies[0].Text)

	replies = r.Handle(context.Background(), msg("!trend empty"))
	assert.Equal(t, []Reply{{Text: "Could not generate trend for empty."}}, replies)

	replies = r.Handle(context.Background(), msg("!trend nothing"))
	assert.Equal(t, []Reply{{Text: "Could not generate trend for nothing."}}, replies)

	replies = r.Handle(context.Background(), msg("!trend"))
	assert.Equal(t, []string{"Please specify a cryptocurrency, e.g., `!trend bitcoin`"}, texts(replies))

	assert.Equal(t, []string{"bitcoin", "zero"}, rr.rendered)
}

func TestTrendRenderFailure(t *testing.T) {
	src := &fakeSource{series: map[string]price.TrendSeries{"bitcoin": {{TimestampMs: 1, Price: 1}}}}
	r, rr := newRouter(src)
	rr.err = errors.New("disk full")

	replies := r.Handle(context.Background(), msg("!trend bitcoin"))
	assert.Equal(t, []Reply{{Text: "Could not generate trend for bitcoin."}}, replies)
}

func TestHelp(t *testing.T) {
	r, _ := newRouter(&fakeSource{})

	replies := r.Handle(context.Background(), msg("!help"))
	require.Len(t, replies, 1)
	for _, c := range []string{CommandCrypto, CommandSetAlert, CommandTrend, CommandInfo, CommandHelp} {
		assert.Contains(t, replies[0].Text, c)
	}
}

func TestIgnoresSelfAndUnknownText(t *testing.T) {
	src := &fakeSource{prices: map[string]float64{"bitcoin": 1}}
	r, _ := newRouter(src)

	self := msg("!crypto bitcoin")
	self.AuthorID = botID
	assert.Empty(t, r.Handle(context.Background(), self))

	assert.Empty(t, r.Handle(context.Background(), msg("hello there")))
	assert.Empty(t, r.Handle(context.Background(), msg("!CRYPTO bitcoin")))
	assert.Empty(t, r.Handle(context.Background(), msg(" !crypto bitcoin")))
	assert.Empty(t, src.calls)
}

func TestIsCommand(t *testing.T) {
	assert.True(t, IsCommand("!crypto bitcoin"))
	assert.True(t, IsCommand("!help"))
	assert.False(t, IsCommand("crypto"))
	assert.False(t, IsCommand(""))
}
