package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dreamhack-badge/internal/api"
	"dreamhack-badge/internal/config"

	"github.com/stretchr/testify/require"
)

func TestCountAdoptersUniqueOwners(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/code", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"total_count":3,"items":[
			{"repository":{"owner":{"login":"alice"}}},
			{"repository":{"owner":{"login":"bob"}}},
			{"repository":{"owner":{"login":"alice"}}}
		]}`)
	}))
	t.Cleanup(stub.Close)

	client := api.NewGithubClient(&config.Config{GithubBaseURL: stub.URL, GithubToken: "test-token"})

	count, err := client.CountAdopters(context.Background())

	require.NoError(t, err)
	require.Equal(t, 2, count, "duplicate owners counted once")
}

func TestCountAdoptersWithoutToken(t *testing.T) {
	client := api.NewGithubClient(&config.Config{GithubBaseURL: "http://unused"})

	_, err := client.CountAdopters(context.Background())

	require.ErrorIs(t, err, api.ErrNoGithubToken)
}

func TestCountAdoptersUpstreamError(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(stub.Close)

	client := api.NewGithubClient(&config.Config{GithubBaseURL: stub.URL, GithubToken: "test-token"})

	_, err := client.CountAdopters(context.Background())

	require.Error(t, err)
}
