package domain

// UserProfile mirrors the upstream profile endpoint for a single user. It is
// fetched per request and never persisted.
type UserProfile struct {
	Nickname      string
	Contributions Contributions
	Exp           int
	TotalWargame  int
	Wargame       WargameSummary
	CTF           CTFSummary
	ProfileImage  string
}

type Contributions struct {
	Level int
	Rank  int
}

type WargameSummary struct {
	Solved int
	Rank   int
	Score  int

	// Category maps a category name (web, pwnable, ...) to its per-category
	// score and rank. Absent for users without solves.
	Category map[string]CategoryScore
}

type CategoryScore struct {
	Score int
	Rank  int
}

type CTFSummary struct {
	Rank   int
	Tier   string
	Rating int
}
