package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// RankingSearchLimit is the page size used when searching the global
	// wargame ranking for a nickname.
	RankingSearchLimit = 100

	// RankingProbeOffset is far past the end of the ranking, so the response
	// carries only the participant count.
	RankingProbeOffset = 99999

	// StaleIDRetryBudget bounds the self-heal re-resolution after a cached
	// user id stops resolving to a profile.
	StaleIDRetryBudget = 1
)
