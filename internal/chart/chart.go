// Package chart renders the historical and forecast demand chart.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultHistoryDays is how many trailing historical days are drawn.
const DefaultHistoryDays = 60

// ErrNoData is returned when there is no historical point to draw.
var ErrNoData = errors.New("chart needs at least one historical point")

var (
	historyColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	forecastColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// Point is one day on the chart.
type Point struct {
	Date  time.Time
	Value float64
}

// Options control the rendered image.
type Options struct {
	Title       string
	HistoryDays int
	Width       vg.Length
	Height      vg.Length
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Historical and Forecasted Demand"
	}
	if o.HistoryDays <= 0 {
		o.HistoryDays = DefaultHistoryDays
	}
	if o.Width <= 0 {
		o.Width = 10 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 5 * vg.Inch
	}
	return o
}

// PNG draws the last HistoryDays of history and the forecast to w. The
// forecast line starts at the last historical point so the two connect.
func PNG(w io.Writer, history, forecast []Point, opts Options) error {
	if len(history) == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults()
	if len(history) > opts.HistoryDays {
		history = history[len(history)-opts.HistoryDays:]
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Demand"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	hl, hs, err := plotter.NewLinePoints(toXYs(history))
	if err != nil {
		return fmt.Errorf("failed to build history line: %w", err)
	}
	hl.Color = historyColor
	hs.Shape = draw.CircleGlyph{}
	hs.Color = historyColor
	p.Add(hl, hs)
	p.Legend.Add("Historical Demand", hl, hs)

	if len(forecast) > 0 {
		joined := make([]Point, 0, len(forecast)+1)
		joined = append(joined, history[len(history)-1])
		joined = append(joined, forecast...)

		fl, err := plotter.NewLine(toXYs(joined))
		if err != nil {
			return fmt.Errorf("failed to build forecast line: %w", err)
		}
		fl.Color = forecastColor
		fl.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

		fs, err := plotter.NewScatter(toXYs(forecast))
		if err != nil {
			return fmt.Errorf("failed to build forecast markers: %w", err)
		}
		fs.Shape = draw.CrossGlyph{}
		fs.Color = forecastColor
		p.Add(fl, fs)
		p.Legend.Add("Forecasted Demand", fl, fs)
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

func toXYs(pts []Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i].X = float64(pt.Date.Unix())
		xys[i].Y = pt.Value
	}
	return xys
}
