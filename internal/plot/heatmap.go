package plot

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"freebet-arb/internal/mathutil"
	"freebet-arb/internal/sweep"
)

// Heatmap hover label. Values are percentages.
const HoverTemplate = "Bet 1 Odds: %{x}<br>Bet 2 Odds: %{y}<br>Risk-Adjusted Profit: %{z}%<extra></extra>"

var redToWhite = []string{
	"rgb(255, 0, 0)",
	"rgb(255, 62, 34)",
	"rgb(255, 91, 58)",
	"rgb(255, 115, 82)",
	"rgb(255, 137, 105)",
	"rgb(255, 158, 129)",
	"rgb(255, 178, 153)",
	"rgb(255, 198, 178)",
	"rgb(255, 217, 203)",
	"rgb(255, 236, 229)",
	"rgb(255, 255, 255)",
}

var whiteToBlue = []string{
	"rgb(255, 255, 255)",
	"rgb(242, 232, 255)",
	"rgb(228, 208, 255)",
	"rgb(213, 185, 255)",
	"rgb(197, 162, 255)",
	"rgb(180, 140, 255)",
	"rgb(161, 117, 255)",
	"rgb(140, 94, 255)",
	"rgb(116, 70, 255)",
	"rgb(84, 43, 255)",
	"rgb(24, 0, 255)",
}

// ColorStop is one entry of a plotly colorscale.
type ColorStop struct {
	Offset float64
	Color  string
}

// MarshalJSON encodes the stop as plotly's [offset, color] pair.
func (c ColorStop) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Offset, c.Color})
}

// Colorscale fades red to white over [0, 0.5], then white to blue over [0.5, 1].
// Both ends hold a white stop at 0.5.
func Colorscale() []ColorStop {
	stops := make([]ColorStop, 0, len(redToWhite)+len(whiteToBlue))
	stops = append(stops, spaced(redToWhite, 0, 0.5)...)
	stops = append(stops, spaced(whiteToBlue, 0.5, 1)...)
	return stops
}

func spaced(colors []string, start, end float64) []ColorStop {
	out := make([]ColorStop, len(colors))
	step := (end - start) / float64(len(colors)-1)
	for i, c := range colors {
		out[i] = ColorStop{Offset: start + float64(i)*step, Color: c}
	}
	out[len(out)-1].Offset = end
	return out
}

type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

type Marker struct {
	Color  string `json:"color,omitempty"`
	Size   int    `json:"size,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// Trace is the subset of a plotly trace used by the charts.
type Trace struct {
	Type          string      `json:"type"`
	Name          string      `json:"name,omitempty"`
	X             []int       `json:"x"`
	Y             []int       `json:"y"`
	Z             [][]float64 `json:"z,omitempty"`
	ColorAxis     string      `json:"coloraxis,omitempty"`
	HoverTemplate string      `json:"hovertemplate,omitempty"`
	Mode          string      `json:"mode,omitempty"`
	Text          []string    `json:"text,omitempty"`
	TextPosition  string      `json:"textposition,omitempty"`
	TextFont      *Font       `json:"textfont,omitempty"`
	Marker        *Marker     `json:"marker,omitempty"`
}

type Title struct {
	Text string  `json:"text,omitempty"`
	X    float64 `json:"x"`
	Font Font    `json:"font"`
}

type Axis struct {
	Range          [2]int `json:"range"`
	ShowTickLabels bool   `json:"showticklabels"`
}

type ColorAxis struct {
	Colorscale []ColorStop `json:"colorscale"`
	ShowScale  bool        `json:"showscale"`
}

type Margin struct {
	T int `json:"t"`
	R int `json:"r"`
	B int `json:"b"`
	L int `json:"l"`
}

type Layout struct {
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	Margin        Margin    `json:"margin"`
	Title         Title     `json:"title"`
	XAxis         Axis      `json:"xaxis"`
	YAxis         Axis      `json:"yaxis"`
	ColorAxis     ColorAxis `json:"coloraxis"`
	ShowLegend    bool      `json:"showlegend"`
	HoverDistance int       `json:"hoverdistance"`
}

// Figure is a plotly chart bound to the div it renders into.
type Figure struct {
	ID     string
	Data   []Trace
	Layout Layout
}

// ChartTitle describes the strategy behind a sweep.
func ChartTitle(cfg sweep.Config) string {
	plural := ""
	if cfg.NumBets > 1 {
		plural = "s"
	}
	phrase := "DOES NOT"
	if cfg.PromoIncludesStake {
		phrase = "DOES"
	}
	return fmt.Sprintf("<b>Risk-Adjusted %% Profit-Per-Promotion</b> <br> for a strategy using <b>%d</b> promotion%s <br> with a risk aversion of <b>%g</b> <br> where a bet credit <b>%s</b> return its stake",
		cfg.NumBets, plural, cfg.RiskCoefficient, phrase)
}

// NewHeatmap renders a grid as percentages with the optimum marked.
func NewHeatmap(g *sweep.Grid, title string) Figure {
	z := make([][]float64, len(g.Z))
	for i, row := range g.Z {
		z[i] = make([]float64, len(row))
		for j, v := range row {
			z[i][j] = v * 100
		}
	}

	best := g.Max()
	bound := g.Config.Upper

	heat := Trace{
		Type:          "heatmap",
		X:             g.Axis,
		Y:             g.Axis,
		Z:             z,
		ColorAxis:     "coloraxis",
		HoverTemplate: HoverTemplate,
	}
	optimum := Trace{
		Type:         "scatter",
		Name:         "Optimum Odds",
		X:            []int{best.Odds1},
		Y:            []int{best.Odds2},
		Mode:         "markers+text",
		Text:         []string{percentLabel(best.Value)},
		TextPosition: "top center",
		TextFont:     &Font{Color: "black", Size: 18},
		Marker:       &Marker{Color: "black", Size: 12, Symbol: "cross"},
	}

	return Figure{
		ID:   uuid.NewString(),
		Data: []Trace{heat, optimum},
		Layout: Layout{
			Width:         300,
			Height:        300,
			Title:         Title{Text: title, X: 0.5, Font: Font{Family: "Arial", Size: 18}},
			XAxis:         Axis{Range: [2]int{-bound, bound}},
			YAxis:         Axis{Range: [2]int{-bound, bound}},
			ColorAxis:     ColorAxis{Colorscale: Colorscale()},
			HoverDistance: 1,
		},
	}
}

// percentLabel formats a fraction as a percentage rounded to 3 places, always
// with a fractional part.
// Example: 0.501 → "50.1%", 0.5 → "50.0%"
func percentLabel(v float64) string {
	s := strconv.FormatFloat(mathutil.Round(v*100, 3), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}

var pageTmpl = template.Must(template.New("figure").Parse(`<html>
<head><meta charset="utf-8" /></head>
<body>
    <div>
        <div id="{{.ID}}" class="plotly-graph-div" style="height:{{.Layout.Height}}px; width:{{.Layout.Width}}px;"></div>
        <script type="text/javascript">
            window.PLOTLYENV=window.PLOTLYENV || {};
            if (document.getElementById({{.ID}})) {
                Plotly.newPlot({{.ID}}, {{.Data}}, {{.Layout}}, {"responsive": true})
            };
        </script>
    </div>
</body>
</html>
`))

// WriteHTML writes the figure as a standalone page. plotly.js is not included;
// the page embedding the script must load it.
func WriteHTML(w io.Writer, fig Figure) error {
	if err := pageTmpl.Execute(w, fig); err != nil {
		return fmt.Errorf("render figure %s: %w", fig.ID, err)
	}
	return nil
}
