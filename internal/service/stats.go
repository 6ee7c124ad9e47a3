package service

import (
	"context"
	"errors"
	"fmt"

	"dreamhack-badge/internal/api"
	"dreamhack-badge/internal/constants"
	"dreamhack-badge/internal/domain"

	"github.com/rs/zerolog"
)

// IdentifierCache is the username -> user id store. Lookup errors are treated
// as cache misses and write errors are swallowed, so a broken cache degrades
// to an extra upstream search instead of a request failure.
type IdentifierCache interface {
	Get(ctx context.Context, username string) (int64, error)
	Put(ctx context.Context, username string, userID int64) error
}

// UpstreamClient is the read-only Dreamhack API surface the resolver needs.
type UpstreamClient interface {
	LastRank(ctx context.Context) (int, error)
	SearchUser(ctx context.Context, username string) (int64, error)
	UserProfile(ctx context.Context, userID int64) (*api.ProfileResponse, error)
}

type StatsService struct {
	client UpstreamClient
	cache  IdentifierCache
	logger zerolog.Logger
}

func NewStatsService(client UpstreamClient, cache IdentifierCache, logger zerolog.Logger) *StatsService {
	return &StatsService{client: client, cache: cache, logger: logger}
}

// ResolveUserID turns a username into the numeric user id, cache-first. On a
// miss the ranking search result is written back to the cache best-effort.
func (s *StatsService) ResolveUserID(ctx context.Context, username string) (int64, error) {
	cacheCtx, cacheCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	userID, err := s.cache.Get(cacheCtx, username)
	cacheCancel()
	if err == nil {
		s.logger.Debug().Str("username", username).Int64("user_id", userID).Msg("resolved user id from cache")
		return userID, nil
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	userID, err = s.client.SearchUser(apiCtx, username)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to resolve user id")
		return 0, fmt.Errorf("failed to resolve user id: %w", err)
	}

	putCtx, putCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer putCancel()
	if err := s.cache.Put(putCtx, username, userID); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to cache user id")
	}

	s.logger.Info().Str("username", username).Int64("user_id", userID).Msg("resolved user id from upstream")
	return userID, nil
}

// Profile fetches the full profile for userID. When the upstream reports the
// id as gone and a username is known, the cached mapping is assumed stale:
// the username is re-resolved once with a fresh ranking search (bypassing the
// cache) and the fetch retried. Other failures are returned as-is.
func (s *StatsService) Profile(ctx context.Context, userID int64, username string) (*domain.UserProfile, error) {
	for attempt := 0; ; attempt++ {
		apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		profile, err := s.client.UserProfile(apiCtx, userID)
		cancel()
		if err == nil {
			return toDomainProfile(profile), nil
		}

		if attempt >= constants.StaleIDRetryBudget || username == "" || !errors.Is(err, api.ErrProfileNotFound) {
			return nil, err
		}

		s.logger.Info().Str("username", username).Int64("stale_user_id", userID).Msg("cached user id is stale, re-resolving")

		searchCtx, searchCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		freshID, searchErr := s.client.SearchUser(searchCtx, username)
		searchCancel()
		if searchErr != nil {
			s.logger.Warn().Err(searchErr).Str("username", username).Msg("fresh user id search failed")
			return nil, err
		}

		putCtx, putCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		if cacheErr := s.cache.Put(putCtx, username, freshID); cacheErr != nil {
			s.logger.Warn().Err(cacheErr).Str("username", username).Msg("failed to cache fresh user id")
		}
		putCancel()

		userID = freshID
	}
}

// LastRank returns the total count of globally ranked participants.
func (s *StatsService) LastRank(ctx context.Context) (int, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	count, err := s.client.LastRank(apiCtx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to fetch last rank")
		return 0, err
	}
	return count, nil
}

func toDomainProfile(p *api.ProfileResponse) *domain.UserProfile {
	profile := &domain.UserProfile{
		Nickname: p.Nickname,
		Contributions: domain.Contributions{
			Level: p.Contributions.Level,
			Rank:  p.Contributions.Rank,
		},
		Exp:          p.Exp,
		TotalWargame: p.TotalWargame,
		Wargame: domain.WargameSummary{
			Solved: p.Wargame.Solved,
			Rank:   p.Wargame.Rank,
			Score:  p.Wargame.Score,
		},
		CTF: domain.CTFSummary{
			Rank:   p.CTF.Rank,
			Tier:   p.CTF.Tier,
			Rating: p.CTF.Rating,
		},
		ProfileImage: p.ProfileImage,
	}

	if len(p.Wargame.Category) > 0 {
		profile.Wargame.Category = make(map[string]domain.CategoryScore, len(p.Wargame.Category))
		for name, data := range p.Wargame.Category {
			profile.Wargame.Category[name] = domain.CategoryScore{Score: data.Score, Rank: data.Rank}
		}
	}

	return profile
}
