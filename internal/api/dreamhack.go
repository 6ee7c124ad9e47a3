package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"dreamhack-badge/internal/config"
	"dreamhack-badge/internal/constants"

	"github.com/valyala/fasthttp"
)

var (
	// ErrUserNotFound is returned by SearchUser when no ranking entry carries
	// the exact nickname.
	ErrUserNotFound = errors.New("user not found in wargame ranking")

	// ErrProfileNotFound is returned by UserProfile on an upstream 404. The
	// stats resolver uses it to detect a stale cached user id.
	ErrProfileNotFound = errors.New("user profile not found")
)

type DreamhackClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewDreamhackClient(cfg *config.Config) *DreamhackClient {
	return &DreamhackClient{
		baseURL: cfg.DreamhackBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// LastRank returns the total number of globally ranked wargame participants.
// The probe offset points far past the end of the ranking so the response
// carries only the count.
func (c *DreamhackClient) LastRank(ctx context.Context) (int, error) {
	reqURL := fmt.Sprintf("%s/api/v1/ranking/wargame/?filter=global&limit=1&offset=%d", c.baseURL, constants.RankingProbeOffset)
	resp, err := doRequest[rankingResponse](ctx, c, reqURL)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// SearchUser resolves a nickname to the numeric user id by scanning the
// ranking search results for an exact, case-sensitive match.
func (c *DreamhackClient) SearchUser(ctx context.Context, username string) (int64, error) {
	reqURL := fmt.Sprintf(
		"%s/api/v1/ranking/wargame/?filter=global&limit=%d&offset=0&search=%s&scope=all&name=&category=",
		c.baseURL, constants.RankingSearchLimit, url.QueryEscape(username),
	)
	resp, err := doRequest[rankingResponse](ctx, c, reqURL)
	if err != nil {
		return 0, err
	}
	for _, entry := range resp.Results {
		if entry.Nickname == username {
			return entry.ID, nil
		}
	}
	return 0, ErrUserNotFound
}

// UserProfile fetches the full profile for a numeric user id. A 404 maps to
// ErrProfileNotFound so callers can tell a vanished id from other failures.
func (c *DreamhackClient) UserProfile(ctx context.Context, userID int64) (*ProfileResponse, error) {
	reqURL := fmt.Sprintf("%s/api/v1/user/profile/%d/", c.baseURL, userID)
	profile, err := doRequest[ProfileResponse](ctx, c, reqURL)
	if err != nil {
		if errors.Is(err, errStatusNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

var errStatusNotFound = errors.New("API returned 404")

func doRequest[T any](ctx context.Context, client *DreamhackClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() == fasthttp.StatusNotFound {
		return nil, errStatusNotFound
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type rankingResponse struct {
	Count   int             `json:"count"`
	Results []rankingResult `json:"results"`
}

type rankingResult struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

type ProfileResponse struct {
	Nickname      string            `json:"nickname"`
	Contributions ContributionsData `json:"contributions"`
	Exp           int               `json:"exp"`
	TotalWargame  int               `json:"total_wargame"`
	Wargame       WargameData       `json:"wargame"`
	CTF           CTFData           `json:"ctf"`
	ProfileImage  string            `json:"profile_image"`
}

type ContributionsData struct {
	Level int `json:"level"`
	Rank  int `json:"rank"`
}

type WargameData struct {
	Solved   int                     `json:"solved"`
	Rank     int                     `json:"rank"`
	Score    int                     `json:"score"`
	Category map[string]CategoryData `json:"category"`
}

type CategoryData struct {
	Score int `json:"score"`
	Rank  int `json:"rank"`
}

type CTFData struct {
	Rank   int    `json:"rank"`
	Tier   string `json:"tier"`
	Rating int    `json:"rating"`
}
