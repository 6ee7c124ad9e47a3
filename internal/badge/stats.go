package badge

import "fmt"

// Stats is the view model for the overall wargame stats badge. Rank is
// pre-formatted by the caller as "<rank>/<total>" (or "<rank>/N/A").
type Stats struct {
	Nickname       string
	Solved         int
	Rank           string
	RankPercentage string
	Score          int
}

const (
	statsWidth  = 390
	statsHeight = 190
)

// RenderStats produces the 390x190 stats badge. Pure string formatting; the
// nickname is interpolated as-is, matching the upstream data.
func RenderStats(stats Stats, theme Theme) string {
	cards := statCard(25, "Solved Challenges", fmt.Sprintf("%d", stats.Solved), theme) +
		statCard(140, "Rank", stats.Rank, theme) +
		statCard(255, "Score", fmt.Sprintf("%d", stats.Score), theme)

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" fill="none">
  <style>
    .title { font: 700 18px 'Segoe UI', Ubuntu, sans-serif; fill: %s; }
    .user-name { font: 800 28px 'Segoe UI', Ubuntu, sans-serif; fill: %s; }
    .top-label { font: 700 14px 'Segoe UI', Ubuntu, sans-serif; fill: %s; }
    .stat-label { font: 400 11px 'Segoe UI', Ubuntu, sans-serif; fill: %s; }
    .stat-value { font: 700 18px 'Segoe UI', Ubuntu, sans-serif; fill: %s; }
  </style>
  <rect x="0.5" y="0.5" width="%d" height="%d" rx="12" ry="12" fill="%s" stroke="%s" stroke-width="1"/>
  <text x="25" y="38" class="title">Dreamhack Wargame Stats</text>
  <text x="25" y="78" class="user-name">%s</text>
  <circle cx="330" cy="56" r="34" fill="%s" fill-opacity="0.15"/>
  <text x="330" y="52" class="top-label" text-anchor="middle">TOP</text>
  <text x="330" y="70" class="top-label" text-anchor="middle">%s%%</text>
%s</svg>
`,
		statsWidth, statsHeight, statsWidth, statsHeight,
		theme.Title, theme.Text, theme.Accent, theme.SubText, theme.Accent,
		statsWidth-1, statsHeight-1, theme.Background, theme.Border,
		stats.Nickname,
		theme.Accent,
		stats.RankPercentage,
		cards,
	)
}

func statCard(x int, label, value string, theme Theme) string {
	const (
		cardY      = 112
		cardWidth  = 110
		cardHeight = 60
	)
	center := x + cardWidth/2

	return fmt.Sprintf(`  <rect x="%d" y="%d" width="%d" height="%d" rx="8" ry="8" fill="%s" stroke="%s" stroke-width="0.5"/>
  <text x="%d" y="%d" class="stat-label" text-anchor="middle">%s</text>
  <text x="%d" y="%d" class="stat-value" text-anchor="middle">%s</text>
`,
		x, cardY, cardWidth, cardHeight, theme.Card, theme.Border,
		center, cardY+22, label,
		center, cardY+47, value,
	)
}
