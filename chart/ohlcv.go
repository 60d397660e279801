// Package chart renders kline series as interactive candlestick charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/rustyeddy/tradedata/market"
)

const (
	DefaultDataBars = 120
	DefaultShowBars = 30

	timeLayout = "2006-01-02 15:04"
)

var (
	// ErrNoData is returned when no rows fall inside the data window.
	ErrNoData = errors.New("chart: no data in range")

	// ErrAmbiguousSymbol is returned when rows span several symbols and
	// Options.Symbol is empty.
	ErrAmbiguousSymbol = errors.New("chart: rows hold several symbols")
)

// MA line colours.
var maColors = map[string]string{
	"MA7":  "yellow",
	"MA25": "purple",
	"MA99": "teal",
}

type Options struct {
	Symbol    string
	Timeframe string    // bar width; unknown values fall back to 1m
	Center    time.Time // zero centers on the last bar
	DataBars  int       // bars loaded each side of Center
	ShowBars  int       // bars shown each side of Center before zooming
}

func (o Options) withDefaults() Options {
	if o.DataBars <= 0 {
		o.DataBars = DefaultDataBars
	}
	if o.ShowBars <= 0 {
		o.ShowBars = DefaultShowBars
	}
	return o
}

// Figure is a built chart: the candlestick panel with its MA overlays and
// the volume panel below it.
type Figure struct {
	Page   *components.Page
	Kline  *charts.Kline
	Volume *charts.Bar

	Title     string
	Rows      []market.SMAKline // rows inside the data window
	Center    time.Time         // time of the bar nearest the requested center
	YMin      float64
	YMax      float64
	ZoomStart float32 // percent of Rows
	ZoomEnd   float32
}

// Render writes the chart as a standalone HTML page.
func (f *Figure) Render(w io.Writer) error {
	return f.Page.Render(w)
}

// Build selects the rows around the center time and lays out the chart.
func Build(rows []market.SMAKline, o Options) (*Figure, error) {
	o = o.withDefaults()

	rows, err := selectSymbol(rows, o.Symbol)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	if o.Symbol == "" {
		o.Symbol = rows[0].Symbol
	}

	tf, err := market.ParseTimeframe(o.Timeframe)
	if err != nil {
		tf = market.M1
	}
	bar, _ := tf.Duration()

	center := o.Center
	if center.IsZero() {
		center = rows[0].Time
		for _, r := range rows[1:] {
			if r.Time.After(center) {
				center = r.Time
			}
		}
	}

	dataFrom, dataTo := window(center, bar, o.DataBars)
	viewFrom, viewTo := window(center, bar, o.ShowBars)

	var inData []market.SMAKline
	first, last := -1, -1
	for _, r := range rows {
		if r.Time.Before(dataFrom) || r.Time.After(dataTo) {
			continue
		}
		if !r.Time.Before(viewFrom) && !r.Time.After(viewTo) {
			if first < 0 {
				first = len(inData)
			}
			last = len(inData)
		}
		inData = append(inData, r)
	}
	if len(inData) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, center.Format(timeLayout))
	}

	center = nearestBar(inData, center)

	visible := inData
	if first >= 0 {
		visible = inData[first : last+1]
	} else {
		first, last = 0, len(inData)-1
	}
	yMin, yMax := priceRange(visible)

	f := &Figure{
		Title:     o.Symbol + " " + tf.String(),
		Rows:      inData,
		Center:    center,
		YMin:      yMin * 0.998,
		YMax:      yMax * 1.002,
		ZoomStart: 100 * float32(first) / float32(len(inData)),
		ZoomEnd:   100 * float32(last+1) / float32(len(inData)),
	}
	f.Kline = f.candles()
	f.Volume = f.volume()
	f.Page = components.NewPage()
	f.Page.SetPageTitle(f.Title)
	f.Page.AddCharts(f.Kline, f.Volume)
	return f, nil
}

func (f *Figure) candles() *charts.Kline {
	x := axis(f.Rows)

	k := charts.NewKLine()
	k.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeChalk, Width: "1200px", Height: "560px"}),
		charts.WithTitleOpts(opts.Title{Title: f.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true), Min: f.YMin, Max: f.YMax}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside", Start: f.ZoomStart, End: f.ZoomEnd, XAxisIndex: []int{0}},
			opts.DataZoom{Type: "slider", Start: f.ZoomStart, End: f.ZoomEnd, XAxisIndex: []int{0}},
		),
	)

	data := make([]opts.KlineData, len(f.Rows))
	for i, r := range f.Rows {
		data[i] = opts.KlineData{Value: [4]float64{r.Open, r.Close, r.Low, r.High}}
	}
	k.SetXAxis(x).AddSeries("OHLC", data,
		charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
			Name:  "center",
			XAxis: f.Center.UTC().Format(timeLayout),
		}),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none", "none"},
			LineStyle: &opts.LineStyle{Type: "dashed", Color: "red", Width: 1},
		}),
	)

	ma := charts.NewLine()
	ma.SetXAxis(x)
	for _, s := range []struct {
		name string
		val  func(market.SMAKline) float64
	}{
		{"MA7", func(r market.SMAKline) float64 { return r.MA7 }},
		{"MA25", func(r market.SMAKline) float64 { return r.MA25 }},
		{"MA99", func(r market.SMAKline) float64 { return r.MA99 }},
	} {
		line := make([]opts.LineData, len(f.Rows))
		for i, r := range f.Rows {
			line[i] = opts.LineData{Value: s.val(r)}
		}
		ma.AddSeries(s.name, line,
			charts.WithLineStyleOpts(opts.LineStyle{Color: maColors[s.name], Width: 1}),
		)
	}
	k.Overlap(ma)
	return k
}

func (f *Figure) volume() *charts.Bar {
	b := charts.NewBar()
	b.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeChalk, Width: "1200px", Height: "240px"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", Start: f.ZoomStart, End: f.ZoomEnd, XAxisIndex: []int{0}}),
	)

	data := make([]opts.BarData, len(f.Rows))
	for i, r := range f.Rows {
		color := "red"
		if r.Close >= r.Open {
			color = "green"
		}
		data[i] = opts.BarData{Value: r.Qty, ItemStyle: &opts.ItemStyle{Color: color}}
	}
	b.SetXAxis(axis(f.Rows)).AddSeries("Volume", data)
	return b
}

func selectSymbol(rows []market.SMAKline, symbol string) ([]market.SMAKline, error) {
	if symbol == "" {
		for _, r := range rows[min(1, len(rows)):] {
			if r.Symbol != rows[0].Symbol {
				return nil, ErrAmbiguousSymbol
			}
		}
		return rows, nil
	}
	var out []market.SMAKline
	for _, r := range rows {
		if r.Symbol == symbol {
			out = append(out, r)
		}
	}
	return out, nil
}

// nearestBar returns the bar time closest to t; the earlier bar wins a tie.
func nearestBar(rows []market.SMAKline, t time.Time) time.Time {
	best := rows[0].Time
	bestDist := best.Sub(t).Abs()
	for _, r := range rows[1:] {
		if d := r.Time.Sub(t).Abs(); d < bestDist || (d == bestDist && r.Time.Before(best)) {
			best, bestDist = r.Time, d
		}
	}
	return best
}

func window(center time.Time, bar time.Duration, bars int) (time.Time, time.Time) {
	d := bar * time.Duration(bars)
	return center.Add(-d), center.Add(d)
}

func priceRange(rows []market.SMAKline) (lo, hi float64) {
	lo, hi = rows[0].Low, rows[0].High
	for _, r := range rows[1:] {
		lo = min(lo, r.Low)
		hi = max(hi, r.High)
	}
	return lo, hi
}

func axis(rows []market.SMAKline) []string {
	x := make([]string, len(rows))
	for i, r := range rows {
		x[i] = r.Time.UTC().Format(timeLayout)
	}
	return x
}
