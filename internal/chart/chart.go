package chart

import (
	"bytes"
	"crypto-relay-bot/internal/price"
	"crypto-relay-bot/lib/helpers"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font/gofont/gobold"
)

var (
	unsafeName = regexp.MustCompile(`[^a-z0-9_-]+`)

	lineColor       = drawing.Color{R: 0, G: 122, B: 255, A: 255}
	fillColor       = drawing.Color{R: 0, G: 122, B: 255, A: 25}
	backgroundColor = drawing.Color{R: 55, G: 55, B: 55, A: 255}
	textColor       = drawing.Color{R: 200, G: 200, B: 200, A: 255}
	gridColor       = drawing.Color{R: 100, G: 100, B: 100, A: 128}
)

// Renderer draws trend series as PNG files under Dir.
type Renderer struct {
	Dir       string
	Width     int
	Height    int
	titleFont *truetype.Font
}

func NewRenderer(dir string) (*Renderer, error) {
	font, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse title font")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "could not create chart directory %s", dir)
	}
	return &Renderer{Dir: dir, Width: 1200, Height: 600, titleFont: font}, nil
}

// FileName returns "<asset>_trend.png" with the asset reduced to safe characters.
func FileName(asset string) string {
	name := unsafeName.ReplaceAllString(strings.ToLower(asset), "_")
	if name == "" {
		name = "asset"
	}
	return name + "_trend.png"
}

// Render writes the chart of series and returns the file path.
func (r *Renderer) Render(asset string, series price.TrendSeries) (string, error) {
	if len(series) == 0 {
		return "", price.ErrEmptySeries
	}

	buf, err := r.renderPNG(asset, series)
	if err != nil {
		return "", errors.Wrapf(err, "could not render chart for %s", asset)
	}

	path := filepath.Join(r.Dir, FileName(asset))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", errors.Wrapf(err, "could not write %s", path)
	}
	log.Debugf("chart for %s written to %s (%d points)", asset, path, len(series))
	return path, nil
}

func (r *Renderer) renderPNG(asset string, series price.TrendSeries) ([]byte, error) {
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = float64(p.TimestampMs)
		ys[i] = p.Price
	}

	minX, maxX := getMinMax(xs)
	if minX == maxX {
		minX, maxX = minX-float64(time.Hour.Milliseconds()), maxX+float64(time.Hour.Milliseconds())
	}
	minY, maxY := getMinMax(ys)
	padding := (maxY - minY) * 0.1
	if padding == 0 {
		padding = math.Max(math.Abs(maxY)*0.01, 1)
	}

	name := helpers.Capitalize(asset)
	gridStyle := chart.Style{StrokeColor: gridColor, StrokeWidth: 1}

	graph := chart.Chart{
		Title: fmt.Sprintf("%s Price Trend (Last %d Days)", name, price.TrendDays),
		TitleStyle: chart.Style{
			Font:      r.titleFont,
			FontSize:  14,
			FontColor: textColor,
		},
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: backgroundColor},
		XAxis: chart.XAxis{
			Name:      "Time (ms since epoch)",
			NameStyle: chart.Style{FontColor: textColor},
			Style:     chart.Style{FontColor: textColor, StrokeColor: textColor},
			Range:     &chart.ContinuousRange{Min: minX, Max: maxX},
			ValueFormatter: func(v interface{}) string {
				if ms, ok := v.(float64); ok {
					return time.UnixMilli(int64(ms)).UTC().Format("02-Jan")
				}
				return ""
			},
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:      fmt.Sprintf("%s Price (INR)", name),
			NameStyle: chart.Style{FontColor: textColor},
			Style:     chart.Style{FontColor: textColor, StrokeColor: textColor},
			Range:     &chart.ContinuousRange{Min: minY - padding, Max: maxY + padding},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return helpers.FormatPriceINR(f)
				}
				return ""
			},
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: name,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					FillColor:   fillColor,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func getMinMax(values []float64) (min, max float64) {
	if len(values) == 0 {
		return 0, 1
	}

	min, max = values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
