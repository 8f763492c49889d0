package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMicropostRepo_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	users := NewGormUserRepository(db)
	posts := NewGormMicropostRepository(db)
	ctx := context.Background()

	user := createTestUser(t, users, "Author", "author@example.com")

	for _, content := range []string{"first", "second", "third"} {
		require.NoError(t, posts.Create(ctx, testPost(user.ID, content)))
	}

	got, total, err := posts.ListByUser(ctx, user.ID, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, "third", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
	assert.Equal(t, "first", got[2].Content)
}

func TestMicropostRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	users := NewGormUserRepository(db)
	posts := NewGormMicropostRepository(db)
	ctx := context.Background()

	user := createTestUser(t, users, "Author", "author@example.com")
	post := testPost(user.ID, "doomed")
	require.NoError(t, posts.Create(ctx, post))

	require.NoError(t, posts.Delete(ctx, post.ID))
	_, err := posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrMicropostNotFound)

	assert.ErrorIs(t, posts.Delete(ctx, post.ID), ErrMicropostNotFound)
}

func TestMicropostRepo_Feed(t *testing.T) {
	db := setupTestDB(t)
	users := NewGormUserRepository(db)
	follows := NewGormFollowRepository(db)
	posts := NewGormMicropostRepository(db)
	ctx := context.Background()

	reader := createTestUser(t, users, "Reader", "reader@example.com")
	friend := createTestUser(t, users, "Friend", "friend@example.com")
	stranger := createTestUser(t, users, "Stranger", "stranger@example.com")

	require.NoError(t, posts.Create(ctx, testPost(reader.ID, "own post")))
	require.NoError(t, posts.Create(ctx, testPost(friend.ID, "friend post")))
	require.NoError(t, posts.Create(ctx, testPost(stranger.ID, "stranger post")))

	require.NoError(t, follows.Follow(ctx, reader.ID, friend.ID))

	feed, total, err := posts.Feed(ctx, reader.ID, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, feed, 2)

	// Newest first: the friend posted after the reader.
	assert.Equal(t, "friend post", feed[0].Content)
	assert.Equal(t, "own post", feed[1].Content)

	// Unfollowing removes the friend's posts from the feed.
	require.NoError(t, follows.Unfollow(ctx, reader.ID, friend.ID))
	feed, total, err = posts.Feed(ctx, reader.ID, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, feed, 1)
	assert.Equal(t, "own post", feed[0].Content)
}

func TestMicropostRepo_FeedPagination(t *testing.T) {
	db := setupTestDB(t)
	users := NewGormUserRepository(db)
	posts := NewGormMicropostRepository(db)
	ctx := context.Background()

	user := createTestUser(t, users, "Author", "author@example.com")
	for i := 0; i < 5; i++ {
		require.NoError(t, posts.Create(ctx, testPost(user.ID, "post")))
	}

	page1, total, err := posts.Feed(ctx, user.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page1, 2)

	page3, total, err := posts.Feed(ctx, user.ID, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page3, 1)

	// Stable total order: pages never overlap.
	page2, _, err := posts.Feed(ctx, user.ID, 2, 2)
	require.NoError(t, err)
	seen := map[uint]bool{}
	for _, p := range append(append(page1, page2...), page3...) {
		assert.False(t, seen[p.ID], "post %d appeared on two pages", p.ID)
		seen[p.ID] = true
	}
}
