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

// ErrNoGithubToken is returned when the adopter count is requested without a
// configured GitHub token.
var ErrNoGithubToken = errors.New("GitHub token not configured")

const badgeSearchQuery = `"dreamhack-readme-stats.vercel.app/api/" in:file filename:README.md`

type GithubClient struct {
	baseURL string
	token   string
	client  *fasthttp.Client
}

func NewGithubClient(cfg *config.Config) *GithubClient {
	return &GithubClient{
		baseURL: cfg.GithubBaseURL,
		token:   cfg.GithubToken,
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// CountAdopters searches GitHub for READMEs embedding the badge URL and
// returns the number of distinct repository owners.
func (c *GithubClient) CountAdopters(ctx context.Context) (int, error) {
	if c.token == "" {
		return 0, ErrNoGithubToken
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/search/code?q=%s&per_page=100", c.baseURL, url.QueryEscape(badgeSearchQuery)))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return 0, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return 0, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return 0, fmt.Errorf("GitHub API error: %d", resp.StatusCode())
	}

	var result codeSearchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return 0, err
	}

	owners := make(map[string]struct{}, len(result.Items))
	for _, item := range result.Items {
		owners[item.Repository.Owner.Login] = struct{}{}
	}
	return len(owners), nil
}

type codeSearchResponse struct {
	TotalCount int              `json:"total_count"`
	Items      []codeSearchItem `json:"items"`
}

type codeSearchItem struct {
	Repository struct {
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}
