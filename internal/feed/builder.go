package feed

import (
	"github.com/Kyz7/microblog/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Builder assembles cursor-paginated post streams. It only reads: the
// follow graph to resolve sources, and the posts table for the page
// itself.
type Builder struct {
	db *gorm.DB
}

func NewBuilder(db *gorm.DB) *Builder {
	return &Builder{db: db}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// BuildFeed returns one page of posts by the user's followees (and the
// user), newest first, tie-broken by id so the order is total. The second
// return value is the cursor for the next page; empty means the stream is
// exhausted.
func (b *Builder) BuildFeed(userID uint, cursorStr string, limit int) ([]models.Post, string, error) {
	var authorIDs []uint
	err := b.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &authorIDs).Error
	if err != nil {
		return nil, "", err
	}
	authorIDs = append(authorIDs, userID)

	return b.page(b.db.Where("author_id IN ?", authorIDs), cursorStr, limit)
}

// AuthorPosts pages through a single user's posts with the same ordering
// and cursor contract as the feed.
func (b *Builder) AuthorPosts(authorID uint, cursorStr string, limit int) ([]models.Post, string, error) {
	return b.page(b.db.Where("author_id = ?", authorID), cursorStr, limit)
}

func (b *Builder) page(q *gorm.DB, cursorStr string, limit int) ([]models.Post, string, error) {
	limit = clampLimit(limit)

	if cursorStr != "" {
		cur, err := decodeCursor(cursorStr)
		if err != nil {
			return nil, "", err
		}
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cur.ts, cur.ts, cur.id)
	}

	var posts []models.Post
	err := q.Preload("Author").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, "", err
	}

	// A short page means there is nothing past it.
	if len(posts) < limit {
		return posts, "", nil
	}

	last := posts[len(posts)-1]
	return posts, encodeCursor(last.CreatedAt, last.ID), nil
}
