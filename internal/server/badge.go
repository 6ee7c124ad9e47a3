package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"dreamhack-badge/internal/api"
	"dreamhack-badge/internal/badge"
	"dreamhack-badge/internal/constants"
	"dreamhack-badge/internal/domain"
	"dreamhack-badge/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type BadgeServer struct {
	stats  *service.StatsService
	github *api.GithubClient
	logger zerolog.Logger
}

func NewBadgeServer(stats *service.StatsService, github *api.GithubClient, logger zerolog.Logger) *BadgeServer {
	return &BadgeServer{stats: stats, github: github, logger: logger}
}

func (s *BadgeServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats", s.recoverWith("Internal Server Error", s.handleStats))
	mux.HandleFunc("/api/most-solved", s.recoverWith("Internal Server Error", s.handleMostSolved))
	mux.HandleFunc("/api/warmup", s.recoverWith("Warmup failed", s.handleWarmup))
	mux.HandleFunc("/api/users-count", s.recoverWith("Internal server error", s.handleUsersCount))
}

func (s *BadgeServer) handleStats(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		s.writeError(w, http.StatusBadRequest, "Username is required")
		return
	}
	theme := badge.ThemeByName(r.URL.Query().Get("theme"))

	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	// The ranking total and the resolve->profile chain are data-independent;
	// fetch them in parallel and join before formatting.
	var (
		lastRank             int
		rankErr              error
		profile              *domain.UserProfile
		resolveErr, fetchErr error
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		lastRank, rankErr = s.stats.LastRank(ctx)
		return nil
	})
	g.Go(func() error {
		userID, err := s.stats.ResolveUserID(ctx, username)
		if err != nil {
			resolveErr = err
			return nil
		}
		profile, fetchErr = s.stats.Profile(ctx, userID, username)
		return nil
	})
	_ = g.Wait()

	if resolveErr != nil {
		s.writeError(w, http.StatusBadRequest, "User not found")
		return
	}
	if rankErr != nil || lastRank == 0 {
		s.writeError(w, http.StatusInternalServerError, "Failed to fetch last rank")
		return
	}
	if fetchErr != nil || profile == nil {
		s.writeError(w, http.StatusBadRequest, "User information cannot be read.")
		return
	}

	stats := badge.Stats{
		Nickname:       profile.Nickname,
		Solved:         profile.TotalWargame,
		Rank:           fmt.Sprintf("%d/%d", profile.Wargame.Rank, lastRank),
		RankPercentage: service.TopPercentage(profile.Wargame.Rank, lastRank),
		Score:          profile.Wargame.Score,
	}

	s.writeSVG(w, badge.RenderStats(stats, theme))
}

func (s *BadgeServer) handleMostSolved(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		s.writeError(w, http.StatusBadRequest, "Username is required")
		return
	}
	theme := badge.ThemeByName(r.URL.Query().Get("theme"))

	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	userID, err := s.stats.ResolveUserID(ctx, username)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "User not found")
		return
	}

	profile, err := s.stats.Profile(ctx, userID, username)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "User information cannot be read.")
		return
	}

	s.writeSVG(w, badge.RenderCategories(badge.CategoriesFromProfile(profile), theme))
}

func (s *BadgeServer) handleWarmup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	lastRank, err := s.stats.LastRank(ctx)
	if err != nil || lastRank == 0 {
		s.writeError(w, http.StatusInternalServerError, "Failed to fetch last rank")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Warmup successful",
		"lastRank": lastRank,
	})
}

func (s *BadgeServer) handleUsersCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	count, err := s.github.CountAdopters(ctx)
	if errors.Is(err, api.ErrNoGithubToken) {
		s.writeError(w, http.StatusInternalServerError, "GitHub token not configured")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count adopters")
		s.writeError(w, http.StatusInternalServerError, "GitHub API error")
		return
	}

	// shields.io endpoint badge format.
	w.Header().Set("Cache-Control", "public, max-age=3600, s-maxage=3600")
	s.writeJSON(w, http.StatusOK, map[string]any{
		"schemaVersion": 1,
		"label":         "users",
		"message":       strconv.Itoa(count),
		"color":         "blue",
	})
}

func (s *BadgeServer) recoverWith(message string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				s.writeError(w, http.StatusInternalServerError, message)
			}
		}()
		next(w, r)
	}
}

func (s *BadgeServer) writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(svg)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write SVG response")
	}
}

func (s *BadgeServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write JSON response")
	}
}

func (s *BadgeServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
