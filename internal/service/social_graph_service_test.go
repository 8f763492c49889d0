package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocialGraph_FollowSymmetry(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	a := registerUser(t, env, "Alice", "alice@example.com", "secret1")
	b := registerUser(t, env, "Bob", "bob@example.com", "secret1")

	require.NoError(t, env.graph.Follow(ctx, a.User.ID, b.User.ID))

	following, err := env.graph.IsFollowing(ctx, a.User.ID, b.User.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := env.graph.GetFollowersCount(ctx, b.User.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)

	followed, err := env.graph.GetFollowingCount(ctx, a.User.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followed)

	require.NoError(t, env.graph.Unfollow(ctx, a.User.ID, b.User.ID))

	following, err = env.graph.IsFollowing(ctx, a.User.ID, b.User.ID)
	require.NoError(t, err)
	assert.False(t, following)

	followers, err = env.graph.GetFollowersCount(ctx, b.User.ID)
	require.NoError(t, err)
	assert.Zero(t, followers)

	followed, err = env.graph.GetFollowingCount(ctx, a.User.ID)
	require.NoError(t, err)
	assert.Zero(t, followed)
}

func TestSocialGraph_FollowIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	a := registerUser(t, env, "Alice", "alice@example.com", "secret1")
	b := registerUser(t, env, "Bob", "bob@example.com", "secret1")

	require.NoError(t, env.graph.Follow(ctx, a.User.ID, b.User.ID))
	require.NoError(t, env.graph.Follow(ctx, a.User.ID, b.User.ID))

	count, err := env.graph.GetFollowingCount(ctx, a.User.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSocialGraph_UnfollowAbsentIsNoop(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	a := registerUser(t, env, "Alice", "alice@example.com", "secret1")
	b := registerUser(t, env, "Bob", "bob@example.com", "secret1")

	assert.NoError(t, env.graph.Unfollow(ctx, a.User.ID, b.User.ID))
}

func TestSocialGraph_SelfFollowRejected(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	a := registerUser(t, env, "Alice", "alice@example.com", "secret1")

	assert.ErrorIs(t, env.graph.Follow(ctx, a.User.ID, a.User.ID), ErrSelfFollow)
}

func TestSocialGraph_FollowMissingUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	a := registerUser(t, env, "Alice", "alice@example.com", "secret1")

	assert.ErrorIs(t, env.graph.Follow(ctx, a.User.ID, "no-such-user"), ErrUserNotFound)
}

func TestSocialGraph_Listings(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	target := registerUser(t, env, "Target", "target@example.com", "secret1")
	fan := registerUser(t, env, "Fan", "fan@example.com", "secret1")

	require.NoError(t, env.graph.Follow(ctx, fan.User.ID, target.User.ID))

	followers, total, err := env.graph.ListFollowers(ctx, target.User.ID, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, followers, 1)
	assert.Equal(t, fan.User.ID, followers[0].ID)

	following, total, err := env.graph.ListFollowing(ctx, fan.User.ID, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, following, 1)
	assert.Equal(t, target.User.ID, following[0].ID)
}
