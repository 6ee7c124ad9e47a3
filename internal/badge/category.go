package badge

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"dreamhack-badge/internal/domain"
)

// Category is one per-category slice of the solve breakdown, with its display
// color already assigned.
type Category struct {
	Name  string
	Score int
	Rank  int
	Color string
}

// CategoryStats is the view model for the category badge. Categories are
// ordered descending by score; the renderer draws them in this order.
type CategoryStats struct {
	Nickname   string
	TotalScore int
	Categories []Category
}

// Fixed colors for the known wargame categories.
var categoryColors = map[string]string{
	"web":       "#ff6b6b",
	"pwnable":   "#339af0",
	"reversing": "#51cf66",
	"crypto":    "#fcc419",
	"forensic":  "#cc5de8",
	"misc":      "#20c997",
}

// Fallback palette for category names the table does not know, cycled by
// their position among the unknown names.
var fallbackColors = []string{
	"#74c0fc", "#a5d8ff", "#66d9e8", "#63e6be", "#8ce99a",
	"#b2f2bb", "#d8f5a2", "#ffec99", "#ffc078", "#ffa8a8",
}

// CategoriesFromProfile extracts the per-category breakdown from a profile,
// sorted descending by score (name breaks ties, keeping color assignment
// deterministic), and assigns display colors.
func CategoriesFromProfile(profile *domain.UserProfile) CategoryStats {
	stats := CategoryStats{
		Nickname:   profile.Nickname,
		TotalScore: profile.Wargame.Score,
	}

	for name, data := range profile.Wargame.Category {
		stats.Categories = append(stats.Categories, Category{
			Name:  name,
			Score: data.Score,
			Rank:  data.Rank,
		})
	}

	sort.Slice(stats.Categories, func(i, j int) bool {
		if stats.Categories[i].Score != stats.Categories[j].Score {
			return stats.Categories[i].Score > stats.Categories[j].Score
		}
		return stats.Categories[i].Name < stats.Categories[j].Name
	})

	unknown := 0
	for i := range stats.Categories {
		if color, ok := categoryColors[stats.Categories[i].Name]; ok {
			stats.Categories[i].Color = color
			continue
		}
		stats.Categories[i].Color = fallbackColors[unknown%len(fallbackColors)]
		unknown++
	}

	return stats
}

const (
	pieCenterX = 290
	pieCenterY = 96
	pieRadius  = 88

	legendStartX     = 25
	legendStartY     = 80
	legendItemHeight = 22
	maxLegendItems   = 5

	// Slices below this share of the total get no percentage label; thin
	// wedges cannot fit readable text.
	labelThreshold = 0.08

	labelRadiusRatio = 0.72
	donutRadiusRatio = 0.45
)

// RenderCategories produces the 390x190 category breakdown badge: a donut pie
// on the right, a legend of at most five entries on the left.
func RenderCategories(stats CategoryStats, theme Theme) string {
	var totalCategoryScore int
	for _, category := range stats.Categories {
		totalCategoryScore += category.Score
	}

	var pie, legends strings.Builder

	if len(stats.Categories) == 0 || totalCategoryScore == 0 {
		fmt.Fprintf(&pie, `  <circle cx="%d" cy="%d" r="%d" fill="#dddddd"/>
  <text x="%d" y="%d" text-anchor="middle" class="no-data">No data</text>
`, pieCenterX, pieCenterY, pieRadius, pieCenterX, pieCenterY)
		fmt.Fprintf(&legends, `  <text x="%d" y="%d" class="no-data">No category data</text>
`, legendStartX, legendStartY+10)
	} else {
		currentAngle := 0.0
		for _, category := range stats.Categories {
			fraction := float64(category.Score) / float64(totalCategoryScore)
			sweep := fraction * 360
			endAngle := currentAngle + sweep

			startX, startY := pieCoord(pieRadius, currentAngle)
			endX, endY := pieCoord(pieRadius, endAngle)
			largeArc := 0
			if sweep > 180 {
				largeArc = 1
			}

			fmt.Fprintf(&pie, `  <path d="M %d %d L %.2f %.2f A %d %d 0 %d 1 %.2f %.2f Z" fill="%s" stroke="white" stroke-width="0.5"/>
`, pieCenterX, pieCenterY, startX, startY, pieRadius, pieRadius, largeArc, endX, endY, category.Color)

			if fraction > labelThreshold {
				midAngle := currentAngle + sweep/2
				labelX, labelY := pieCoord(pieRadius*labelRadiusRatio, midAngle)
				fmt.Fprintf(&pie, `  <text x="%.2f" y="%.2f" text-anchor="middle" class="percentage-label">%d%%</text>
`, labelX, labelY, roundPercent(fraction))
			}

			currentAngle = endAngle
		}

		legendCount := len(stats.Categories)
		if legendCount > maxLegendItems {
			legendCount = maxLegendItems
		}
		for i, category := range stats.Categories[:legendCount] {
			legendY := legendStartY + i*legendItemHeight
			fraction := float64(category.Score) / float64(totalCategoryScore)
			fmt.Fprintf(&legends, `  <rect x="%d" y="%d" width="12" height="12" rx="2" ry="2" fill="%s"/>
  <text x="%d" y="%d" class="legend-text">%s %d%%</text>
`, legendStartX, legendY, category.Color,
				legendStartX+20, legendY+10, capitalize(category.Name), roundPercent(fraction))
		}

		// Donut hole with the aggregate score.
		fmt.Fprintf(&pie, `  <circle cx="%d" cy="%d" r="%.1f" fill="%s"/>
  <text x="%d" y="%d" text-anchor="middle" class="total-score-label">Total</text>
  <text x="%d" y="%d" text-anchor="middle" class="total-score-value">%d</text>
`, pieCenterX, pieCenterY, pieRadius*donutRadiusRatio, theme.Background,
			pieCenterX, pieCenterY-5,
			pieCenterX, pieCenterY+12, stats.TotalScore)
	}

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" fill="none">
  <style>
    .title { font: 700 16px 'Segoe UI', Ubuntu, sans-serif; fill: %s; }
    .legend-text { font: 400 14px 'Segoe UI', Ubuntu, sans-serif; fill: %s; }
    .percentage-label { font: 600 10px 'Segoe UI', Ubuntu, sans-serif; fill: white; }
    .total-score-label { font: 500 10px 'Segoe UI', Ubuntu, sans-serif; fill: %s; }
    .total-score-value { font: 700 14px 'Segoe UI', Ubuntu, sans-serif; fill: %s; }
    .no-data { font: 500 12px 'Segoe UI', Ubuntu, sans-serif; fill: %s; }
  </style>
  <rect x="0.5" y="0.5" width="%d" height="%d" rx="12" ry="12" fill="%s" stroke="%s" stroke-width="1"/>
  <text x="20" y="35" class="title">Dreamhack</text>
  <text x="20" y="55" class="title">Most Solved Categories</text>
%s%s</svg>
`,
		statsWidth, statsHeight, statsWidth, statsHeight,
		theme.Title, theme.Text, theme.SubText, theme.Accent, theme.SubText,
		statsWidth-1, statsHeight-1, theme.Background, theme.Border,
		pie.String(), legends.String(),
	)
}

// pieCoord converts a clockwise angle (0 pointing up) at distance r from the
// pie center into SVG coordinates.
func pieCoord(r, angle float64) (float64, float64) {
	rad := (angle - 90) * math.Pi / 180
	return pieCenterX + r*math.Cos(rad), pieCenterY + r*math.Sin(rad)
}

func roundPercent(fraction float64) int {
	return int(math.Round(fraction * 100))
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
