package feed_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/Kyz7/microblog/internal/feed"
	"github.com/Kyz7/microblog/internal/models"
	"github.com/Kyz7/microblog/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	return testutils.CreateTestUser(t, db, username, username+"@example.com", "password123")
}

func seedFollow(t *testing.T, db *gorm.DB, follower, followee uint) {
	require.NoError(t, db.Create(&models.Follow{FollowerID: follower, FolloweeID: followee}).Error)
}

func seedPost(t *testing.T, db *gorm.DB, author uint, at time.Time) *models.Post {
	p := &models.Post{
		AuthorID:  author,
		Body:      fmt.Sprintf("post by %d at %s", author, at),
		CreatedAt: at,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func bodies(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Body)
	}
	return out
}

func TestBuildFeedScenario(t *testing.T) {
	db := testutils.TestDB(t)
	b := feed.NewBuilder(db)

	a := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	seedFollow(t, db, a.ID, bob.ID)
	seedFollow(t, db, a.ID, carol.ID)

	b10 := seedPost(t, db, bob.ID, baseTime.Add(10*time.Second))
	b20 := seedPost(t, db, bob.ID, baseTime.Add(20*time.Second))
	c15 := seedPost(t, db, carol.ID, baseTime.Add(15*time.Second))

	page, cursor, err := b.BuildFeed(a.ID, "", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, b20.ID, page[0].ID)
	assert.Equal(t, c15.ID, page[1].ID)
	require.NotEmpty(t, cursor)

	page, cursor, err = b.BuildFeed(a.ID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, b10.ID, page[0].ID)
	assert.Empty(t, cursor, "short page must come with the end marker")
}

func TestBuildFeedIncludesOwnPosts(t *testing.T) {
	db := testutils.TestDB(t)
	b := feed.NewBuilder(db)

	a := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedFollow(t, db, a.ID, bob.ID)

	own := seedPost(t, db, a.ID, baseTime.Add(30*time.Second))
	theirs := seedPost(t, db, bob.ID, baseTime.Add(10*time.Second))

	page, cursor, err := b.BuildFeed(a.ID, "", 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, own.ID, page[0].ID)
	assert.Equal(t, theirs.ID, page[1].ID)
	assert.Empty(t, cursor)
}

func TestBuildFeedNoFollows(t *testing.T) {
	db := testutils.TestDB(t)
	b := feed.NewBuilder(db)

	a := seedUser(t, db, "alice")

	page, cursor, err := b.BuildFeed(a.ID, "", 10)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Empty(t, cursor)

	own := seedPost(t, db, a.ID, baseTime)
	page, _, err = b.BuildFeed(a.ID, "", 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, own.ID, page[0].ID)
}

func TestBuildFeedTimestampTies(t *testing.T) {
	db := testutils.TestDB(t)
	b := feed.NewBuilder(db)

	a := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedFollow(t, db, a.ID, bob.ID)

	// Three posts on the same instant: order falls back to id descending.
	p1 := seedPost(t, db, bob.ID, baseTime)
	p2 := seedPost(t, db, bob.ID, baseTime)
	p3 := seedPost(t, db, bob.ID, baseTime)

	page, cursor, err := b.BuildFeed(a.ID, "", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, p3.ID, page[0].ID)
	assert.Equal(t, p2.ID, page[1].ID)
	require.NotEmpty(t, cursor)

	// The cursor must resume inside the tie without repeating p2.
	page, cursor, err = b.BuildFeed(a.ID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, p1.ID, page[0].ID)
	assert.Empty(t, cursor)
}

func TestBuildFeedSubMicrosecondGap(t *testing.T) {
	db := testutils.TestDB(t)
	b := feed.NewBuilder(db)

	a := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedFollow(t, db, a.ID, bob.ID)

	// Two posts 400ns apart, inside the same microsecond. The cursor must
	// carry the full stored precision or the older post falls into the gap
	// between "created_at < cursor" and "created_at = cursor".
	older := seedPost(t, db, bob.ID, baseTime.Add(100*time.Nanosecond))
	newer := seedPost(t, db, bob.ID, baseTime.Add(500*time.Nanosecond))

	page, cursor, err := b.BuildFeed(a.ID, "", 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, newer.ID, page[0].ID)
	require.NotEmpty(t, cursor)

	page, cursor, err = b.BuildFeed(a.ID, cursor, 1)
	require.NoError(t, err)
	require.Len(t, page, 1, "older post must not be skipped")
	assert.Equal(t, older.ID, page[0].ID)
	require.NotEmpty(t, cursor)

	page, _, err = b.BuildFeed(a.ID, cursor, 1)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestBuildFeedPagesCoverScanExactly(t *testing.T) {
	db := testutils.TestDB(t)
	b := feed.NewBuilder(db)

	a := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	seedFollow(t, db, a.ID, bob.ID)
	seedFollow(t, db, a.ID, carol.ID)

	authors := []uint{bob.ID, carol.ID, a.ID}
	for i := 0; i < 25; i++ {
		seedPost(t, db, authors[i%len(authors)], baseTime.Add(time.Duration(i)*time.Second))
	}

	full, cursor, err := b.BuildFeed(a.ID, "", 100)
	require.NoError(t, err)
	require.Len(t, full, 25)
	assert.Empty(t, cursor)

	var paged []models.Post
	cursor = ""
	for {
		page, next, err := b.BuildFeed(a.ID, cursor, 10)
		require.NoError(t, err)
		paged = append(paged, page...)
		if next == "" {
			break
		}
		cursor = next
	}

	assert.Equal(t, bodies(full), bodies(paged), "pages must concatenate to the unpaginated scan")
}

func TestBuildFeedDeletedCursorAnchor(t *testing.T) {
	db := testutils.TestDB(t)
	b := feed.NewBuilder(db)

	a := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedFollow(t, db, a.ID, bob.ID)

	older := seedPost(t, db, bob.ID, baseTime.Add(10*time.Second))
	anchor := seedPost(t, db, bob.ID, baseTime.Add(20*time.Second))
	seedPost(t, db, bob.ID, baseTime.Add(30*time.Second))

	page, cursor, err := b.BuildFeed(a.ID, "", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, anchor.ID, page[1].ID)
	require.NotEmpty(t, cursor)

	// The post the cursor points at disappears between pages.
	require.NoError(t, db.Unscoped().Delete(anchor).Error)

	page, cursor, err = b.BuildFeed(a.ID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)
	assert.Empty(t, cursor)
}

func TestBuildFeedMalformedCursor(t *testing.T) {
	db := testutils.TestDB(t)
	b := feed.NewBuilder(db)

	a := seedUser(t, db, "alice")

	_, _, err := b.BuildFeed(a.ID, "definitely not a cursor", 10)
	assert.ErrorIs(t, err, feed.ErrMalformedCursor)
}

func TestBuildFeedLimitClamping(t *testing.T) {
	db := testutils.TestDB(t)
	b := feed.NewBuilder(db)

	a := seedUser(t, db, "alice")
	for i := 0; i < 25; i++ {
		seedPost(t, db, a.ID, baseTime.Add(time.Duration(i)*time.Second))
	}

	page, _, err := b.BuildFeed(a.ID, "", 0)
	require.NoError(t, err)
	assert.Len(t, page, feed.DefaultLimit)

	page, _, err = b.BuildFeed(a.ID, "", 1000)
	require.NoError(t, err)
	assert.Len(t, page, 25)
}

func TestAuthorPosts(t *testing.T) {
	db := testutils.TestDB(t)
	b := feed.NewBuilder(db)

	a := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	seedPost(t, db, a.ID, baseTime.Add(10*time.Second))
	newest := seedPost(t, db, a.ID, baseTime.Add(20*time.Second))
	seedPost(t, db, bob.ID, baseTime.Add(30*time.Second))

	page, cursor, err := b.AuthorPosts(a.ID, "", 10)
	require.NoError(t, err)
	require.Len(t, page, 2, "only the author's posts belong here")
	assert.Equal(t, newest.ID, page[0].ID)
	assert.Empty(t, cursor)
}
