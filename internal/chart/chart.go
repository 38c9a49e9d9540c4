package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/shopspring/decimal"
)

// Kind selects how a series is drawn.
type Kind string

// Chart kinds.
const (
	KindLine Kind = "line"
	KindBar  Kind = "bar"
)

// ParseKind accepts "line" or "bar".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindLine, KindBar:
		return k, nil
	default:
		return "", fmt.Errorf("unknown chart type %q: use line or bar", s)
	}
}

// Chart is a drawable chart bound to a canvas.
type Chart interface {
	Update(s Series)
	View() string
	Resize(width, height int)
	Destroy()
	Destroyed() bool
}

// Palette colors the series of a chart in order.
type Palette struct {
	Series []lipgloss.Color
	Line   []asciigraph.AnsiColor
	Label  lipgloss.Style
	Muted  lipgloss.Style
}

// DefaultPalette uses green for the first series, red for the second and
// blue for the third, matching income, expenses and balance.
var DefaultPalette = Palette{
	Series: []lipgloss.Color{"#10b981", "#ef4444", "#3b82f6", "#f59e0b"},
	Line:   []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Red, asciigraph.Blue, asciigraph.Yellow},
	Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#fafafa")),
	Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#737373")),
}

const noData = "Sem dados para exibir."

type base struct {
	palette   Palette
	title     string
	series    Series
	width     int
	height    int
	destroyed bool
}

func (b *base) Update(s Series) {
	if b.destroyed {
		return
	}
	b.series = s
}

func (b *base) Resize(width, height int) {
	b.width = max(width, 10)
	b.height = max(height, 3)
}

func (b *base) Destroy() {
	b.destroyed = true
	b.series = Series{}
}

func (b *base) Destroyed() bool {
	return b.destroyed
}

func (b *base) legend() string {
	parts := make([]string, 0, len(b.series.Names))
	for i, name := range b.series.Names {
		color := b.palette.Series[i%len(b.palette.Series)]
		parts = append(parts, lipgloss.NewStyle().Foreground(color).Render("■ "+name))
	}
	return strings.Join(parts, "  ")
}

type lineChart struct {
	base
}

func (c *lineChart) View() string {
	if c.destroyed {
		return ""
	}
	if c.series.Empty() {
		return c.palette.Muted.Render(noData)
	}

	data := make([][]float64, len(c.series.Values))
	colors := make([]asciigraph.AnsiColor, len(c.series.Values))
	for i, values := range c.series.Values {
		// asciigraph needs two points to draw a segment
		if len(values) == 1 {
			values = []float64{values[0], values[0]}
		}
		data[i] = values
		colors[i] = c.palette.Line[i%len(c.palette.Line)]
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(c.height),
		asciigraph.Width(c.width),
		asciigraph.Precision(0),
		asciigraph.LowerBound(0),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(c.title),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		graph,
		c.palette.Muted.Render(strings.Join(c.series.Labels, " · ")),
		c.legend(),
	)
}

type barChart struct {
	base
}

func (c *barChart) View() string {
	if c.destroyed {
		return ""
	}
	if c.series.Empty() {
		return c.palette.Muted.Render(noData)
	}

	labelWidth := 0
	for _, l := range c.series.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}
	peak := 0.0
	for _, values := range c.series.Values {
		for _, v := range values {
			peak = max(peak, math.Abs(v))
		}
	}
	barWidth := max(c.width-labelWidth-18, 5)

	var b strings.Builder
	if c.title != "" {
		b.WriteString(c.palette.Label.Bold(true).Render(c.title))
		b.WriteByte('\n')
	}
	for i, label := range c.series.Labels {
		for s, values := range c.series.Values {
			name := ""
			if s == 0 {
				name = label
			}
			v := 0.0
			if i < len(values) {
				v = values[i]
			}
			n := 0
			if peak > 0 {
				n = int(math.Round(math.Abs(v) / peak * float64(barWidth)))
			}
			color := c.palette.Series[s%len(c.palette.Series)]
			fmt.Fprintf(&b, "%s %s %s\n",
				c.palette.Label.Width(labelWidth).Render(name),
				lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", n)),
				c.palette.Muted.Render(model.FormatBRL(decimal.NewFromFloat(v))))
		}
	}
	b.WriteString(c.legend())
	return b.String()
}

// New builds an unmounted chart of kind.
func New(kind Kind, title string, width, height int, palette Palette) (Chart, error) {
	b := base{palette: palette, title: title}
	b.Resize(width, height)
	switch kind {
	case KindLine:
		return &lineChart{base: b}, nil
	case KindBar:
		return &barChart{base: b}, nil
	default:
		return nil, fmt.Errorf("unknown chart type %q", kind)
	}
}
