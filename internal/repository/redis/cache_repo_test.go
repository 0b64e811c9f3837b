package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/games-api/internal/pkg/errors"
)

func setupCacheRepo(t *testing.T) (*CacheRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	repo, err := NewCacheRepo(client)
	require.NoError(t, err)
	return repo, mr
}

func TestCacheRepo_SetGet(t *testing.T) {
	repo, _ := setupCacheRepo(t)

	require.NoError(t, repo.Set("k", "v", time.Minute))

	val, err := repo.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestCacheRepo_Get_Missing(t *testing.T) {
	repo, _ := setupCacheRepo(t)

	_, err := repo.Get("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "Отсутствующий ключ должен давать ErrNotFound")
}

func TestCacheRepo_JSONRoundTrip(t *testing.T) {
	repo, _ := setupCacheRepo(t)

	type entry struct {
		Username string `json:"username"`
		Score    int    `json:"score"`
	}
	in := []entry{{"alice", 120}, {"bob", 90}}

	require.NoError(t, repo.SetJSON("leaderboard:emoji:top:10", in, 30*time.Second))

	var out []entry
	require.NoError(t, repo.GetJSON("leaderboard:emoji:top:10", &out))
	assert.Equal(t, in, out)
}

func TestCacheRepo_DeleteInvalidates(t *testing.T) {
	repo, _ := setupCacheRepo(t)

	require.NoError(t, repo.Set("k", "v", time.Minute))
	require.NoError(t, repo.Delete("k"))

	exists, err := repo.Exists("k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheRepo_TTLExpires(t *testing.T) {
	repo, mr := setupCacheRepo(t)

	require.NoError(t, repo.Set("k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	_, err := repo.Get("k")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
