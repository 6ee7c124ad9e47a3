package badge

// Theme holds the color set for one badge variant. Every color is emitted
// verbatim into the SVG output.
type Theme struct {
	Background string
	Card       string
	Border     string
	Title      string
	Text       string
	SubText    string
	Accent     string
}

var themes = map[string]Theme{
	"light": {
		Background: "#fffefe",
		Card:       "#f8f9fa",
		Border:     "#e4e2e2",
		Title:      "#2f80ed",
		Text:       "#434d58",
		SubText:    "#6c757d",
		Accent:     "#6e45e2",
	},
	"dark": {
		Background: "#0d1117",
		Card:       "#161b22",
		Border:     "#30363d",
		Title:      "#58a6ff",
		Text:       "#c9d1d9",
		SubText:    "#8b949e",
		Accent:     "#a371f7",
	},
}

// ThemeByName returns the named theme, falling back to light for unknown or
// empty names.
func ThemeByName(name string) Theme {
	if theme, ok := themes[name]; ok {
		return theme
	}
	return themes["light"]
}
