package service_test

import (
	"context"
	"errors"
	"testing"

	"dreamhack-badge/internal/api"
	"dreamhack-badge/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var errNotCached = errors.New("not cached")

type fakeCache struct {
	entries map[string]int64
	puts    map[string][]int64
	getErr  error
	putErr  error
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]int64{}, puts: map[string][]int64{}}
}

func (f *fakeCache) Get(_ context.Context, username string) (int64, error) {
	f.gets++
	if f.getErr != nil {
		return 0, f.getErr
	}
	userID, ok := f.entries[username]
	if !ok {
		return 0, errNotCached
	}
	return userID, nil
}

func (f *fakeCache) Put(_ context.Context, username string, userID int64) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts[username] = append(f.puts[username], userID)
	f.entries[username] = userID
	return nil
}

type fakeUpstream struct {
	lastRank    int
	lastRankErr error

	searchIDs   map[string]int64
	searchErr   error
	searchCalls int

	profiles     map[int64]*api.ProfileResponse
	profileErrs  map[int64]error
	profileCalls []int64
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		searchIDs:   map[string]int64{},
		profiles:    map[int64]*api.ProfileResponse{},
		profileErrs: map[int64]error{},
	}
}

func (f *fakeUpstream) LastRank(context.Context) (int, error) {
	return f.lastRank, f.lastRankErr
}

func (f *fakeUpstream) SearchUser(_ context.Context, username string) (int64, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return 0, f.searchErr
	}
	userID, ok := f.searchIDs[username]
	if !ok {
		return 0, api.ErrUserNotFound
	}
	return userID, nil
}

func (f *fakeUpstream) UserProfile(_ context.Context, userID int64) (*api.ProfileResponse, error) {
	f.profileCalls = append(f.profileCalls, userID)
	if err, ok := f.profileErrs[userID]; ok {
		return nil, err
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, api.ErrProfileNotFound
	}
	return profile, nil
}

func newService(upstream *fakeUpstream, cache *fakeCache) *service.StatsService {
	return service.NewStatsService(upstream, cache, zerolog.Nop())
}

func TestResolveUserIDCacheHit(t *testing.T) {
	cache := newFakeCache()
	cache.entries["weakness"] = 20691
	upstream := newFakeUpstream()

	userID, err := newService(upstream, cache).ResolveUserID(context.Background(), "weakness")

	require.NoError(t, err)
	require.Equal(t, int64(20691), userID)
	require.Zero(t, upstream.searchCalls, "cache hit must not reach upstream")
}

func TestResolveUserIDCacheMissSearchesAndCaches(t *testing.T) {
	cache := newFakeCache()
	upstream := newFakeUpstream()
	upstream.searchIDs["weakness"] = 20691

	userID, err := newService(upstream, cache).ResolveUserID(context.Background(), "weakness")

	require.NoError(t, err)
	require.Equal(t, int64(20691), userID)
	require.Equal(t, 1, upstream.searchCalls)
	require.Equal(t, []int64{20691}, cache.puts["weakness"], "resolved id cached exactly once")
}

func TestResolveUserIDNotFound(t *testing.T) {
	cache := newFakeCache()
	upstream := newFakeUpstream()

	_, err := newService(upstream, cache).ResolveUserID(context.Background(), "nonexistentuser")

	require.ErrorIs(t, err, api.ErrUserNotFound)
	require.Empty(t, cache.puts, "nothing cached on a failed search")
}

func TestResolveUserIDCacheErrorBehavesAsMiss(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("store unavailable")
	upstream := newFakeUpstream()
	upstream.searchIDs["weakness"] = 20691

	userID, err := newService(upstream, cache).ResolveUserID(context.Background(), "weakness")

	require.NoError(t, err)
	require.Equal(t, int64(20691), userID)
	require.Equal(t, 1, upstream.searchCalls)
}

func TestResolveUserIDCachePutErrorSwallowed(t *testing.T) {
	cache := newFakeCache()
	cache.putErr = errors.New("write failed")
	upstream := newFakeUpstream()
	upstream.searchIDs["weakness"] = 20691

	userID, err := newService(upstream, cache).ResolveUserID(context.Background(), "weakness")

	require.NoError(t, err)
	require.Equal(t, int64(20691), userID)
}

func TestProfileSelfHealOnStaleID(t *testing.T) {
	cache := newFakeCache()
	cache.entries["weakness"] = 111 // stale mapping still present
	upstream := newFakeUpstream()
	upstream.profileErrs[111] = api.ErrProfileNotFound
	upstream.searchIDs["weakness"] = 222
	upstream.profiles[222] = &api.ProfileResponse{Nickname: "weakness"}

	profile, err := newService(upstream, cache).Profile(context.Background(), 111, "weakness")

	require.NoError(t, err)
	require.Equal(t, "weakness", profile.Nickname)
	require.Equal(t, 1, upstream.searchCalls, "fresh search happens despite the cached value")
	require.Zero(t, cache.gets, "self-heal bypasses the cache lookup")
	require.Equal(t, []int64{111, 222}, upstream.profileCalls)
	require.Equal(t, []int64{222}, cache.puts["weakness"], "fresh id written back")
}

func TestProfileSelfHealNeedsUsername(t *testing.T) {
	cache := newFakeCache()
	upstream := newFakeUpstream()
	upstream.profileErrs[111] = api.ErrProfileNotFound

	_, err := newService(upstream, cache).Profile(context.Background(), 111, "")

	require.ErrorIs(t, err, api.ErrProfileNotFound)
	require.Zero(t, upstream.searchCalls)
}

func TestProfileOtherFailureDoesNotSelfHeal(t *testing.T) {
	cache := newFakeCache()
	upstream := newFakeUpstream()
	boom := errors.New("upstream down")
	upstream.profileErrs[111] = boom

	_, err := newService(upstream, cache).Profile(context.Background(), 111, "weakness")

	require.ErrorIs(t, err, boom)
	require.Zero(t, upstream.searchCalls, "only a not-found triggers re-resolution")
}

func TestProfileSelfHealRetriesExactlyOnce(t *testing.T) {
	cache := newFakeCache()
	upstream := newFakeUpstream()
	upstream.profileErrs[111] = api.ErrProfileNotFound
	upstream.profileErrs[222] = api.ErrProfileNotFound
	upstream.searchIDs["weakness"] = 222

	_, err := newService(upstream, cache).Profile(context.Background(), 111, "weakness")

	require.ErrorIs(t, err, api.ErrProfileNotFound)
	require.Equal(t, 1, upstream.searchCalls)
	require.Equal(t, []int64{111, 222}, upstream.profileCalls, "retry budget is one")
}

func TestProfileSelfHealSearchFailureReturnsNotFound(t *testing.T) {
	cache := newFakeCache()
	upstream := newFakeUpstream()
	upstream.profileErrs[111] = api.ErrProfileNotFound
	// search has no entry for the username, so the fresh lookup fails too

	_, err := newService(upstream, cache).Profile(context.Background(), 111, "weakness")

	require.ErrorIs(t, err, api.ErrProfileNotFound)
	require.Equal(t, 1, upstream.searchCalls)
	require.Equal(t, []int64{111}, upstream.profileCalls)
}

func TestProfileMapsCategories(t *testing.T) {
	cache := newFakeCache()
	upstream := newFakeUpstream()
	upstream.profiles[20691] = &api.ProfileResponse{
		Nickname:     "weakness",
		TotalWargame: 50,
		Wargame: api.WargameData{
			Solved: 50,
			Rank:   200,
			Score:  5000,
			Category: map[string]api.CategoryData{
				"web":     {Score: 2000, Rank: 50},
				"pwnable": {Score: 1500, Rank: 100},
			},
		},
	}

	profile, err := newService(upstream, cache).Profile(context.Background(), 20691, "weakness")

	require.NoError(t, err)
	require.Equal(t, 5000, profile.Wargame.Score)
	require.Len(t, profile.Wargame.Category, 2)
	require.Equal(t, 2000, profile.Wargame.Category["web"].Score)
	require.Equal(t, 100, profile.Wargame.Category["pwnable"].Rank)
}
