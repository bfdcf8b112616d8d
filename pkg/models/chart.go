package models

// ChartSpec is a declarative, renderer-agnostic chart description: trace
// data, layout, and render configuration. It serializes to the JSON shape
// the charting runtime consumes.
type ChartSpec struct {
	Data   []Trace      `json:"data"`
	Layout Layout       `json:"layout"`
	Config RenderConfig `json:"config"`
}

// Trace is a single data series. Field presence depends on the trace type;
// omitted fields are dropped from the serialized spec.
type Trace struct {
	Type         string      `json:"type"`
	X            []any       `json:"x,omitempty"`
	Y            []any       `json:"y,omitempty"`
	Mode         string      `json:"mode,omitempty"`
	Name         string      `json:"name,omitempty"`
	Text         []any       `json:"text,omitempty"`
	Labels       []any       `json:"labels,omitempty"`
	Values       []any       `json:"values,omitempty"`
	TextInfo     string      `json:"textinfo,omitempty"`
	TextPosition string      `json:"textposition,omitempty"`
	Marker       *Marker     `json:"marker,omitempty"`
	Line         *TraceLine  `json:"line,omitempty"`
	InsideFont   *Font       `json:"insidetextfont,omitempty"`
	Header       *TableCells `json:"header,omitempty"`
	Cells        *TableCells `json:"cells,omitempty"`
}

// Marker styles trace points or bars.
type Marker struct {
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"colors,omitempty"`
}

// TraceLine styles a line trace.
type TraceLine struct {
	Shape string `json:"shape,omitempty"`
	Color string `json:"color,omitempty"`
}

// TableCells holds header or cell content for a table trace.
type TableCells struct {
	Values    []any  `json:"values"`
	FillColor string `json:"fill_color,omitempty"`
	Align     string `json:"align,omitempty"`
	Font      *Font  `json:"font,omitempty"`
}

// Font is the text style applied to layout or trace text.
type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Axis configures one chart axis.
type Axis struct {
	Title     string `json:"title,omitempty"`
	ShowGrid  *bool  `json:"showgrid,omitempty"`
	GridColor string `json:"gridcolor,omitempty"`
	Visible   *bool  `json:"visible,omitempty"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Legend positions the chart legend.
type Legend struct {
	Orientation string  `json:"orientation,omitempty"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
}

// Annotation is free-floating text on the plot, used for the empty-data
// placeholder.
type Annotation struct {
	Text      string `json:"text"`
	ShowArrow bool   `json:"showarrow"`
	Font      *Font  `json:"font,omitempty"`
}

// Layout is the uniform layout envelope every chart branch emits.
type Layout struct {
	Title       string       `json:"title,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Font        *Font        `json:"font,omitempty"`
	Margin      *Margin      `json:"margin,omitempty"`
	HoverMode   string       `json:"hovermode,omitempty"`
	PlotBGColor string       `json:"plot_bgcolor,omitempty"`
	ShowLegend  *bool        `json:"showlegend,omitempty"`
	Legend      *Legend      `json:"legend,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// RenderConfig disables the renderer's default remote branding controls.
type RenderConfig struct {
	DisplayLogo            bool     `json:"displaylogo"`
	ModeBarButtonsToRemove []string `json:"modeBarButtonsToRemove,omitempty"`
	Responsive             bool     `json:"responsive"`
}
