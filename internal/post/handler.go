package post

import (
	"errors"

	"github.com/Kyz7/microblog/internal/database"
	"github.com/Kyz7/microblog/internal/feed"
	"github.com/Kyz7/microblog/internal/models"
	"github.com/Kyz7/microblog/internal/response"
	"github.com/gofiber/fiber/v2"
)

// Feed is the shared feed builder, wired in server construction.
var Feed *feed.Builder

func Setup(b *feed.Builder) {
	Feed = b
}

func CreateHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body struct {
		Body string `json:"body"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	cleaned, err := CleanBody(body.Body)
	if err != nil {
		return response.ValidationError(c, map[string]string{"body": err.Error()})
	}

	p := models.Post{
		AuthorID: userID,
		Body:     cleaned,
	}

	if err := database.DB.Create(&p).Error; err != nil {
		return response.InternalError(c, "Failed to create post")
	}

	database.DB.Preload("Author").First(&p, p.ID)

	return response.Created(c, p, "Post created successfully")
}

func GetHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid post ID", nil)
	}

	var p models.Post
	if err := database.DB.Preload("Author").First(&p, id).Error; err != nil {
		return response.NotFound(c, "Post")
	}

	return response.Success(c, p, "Post retrieved successfully")
}

func UpdateHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid post ID", nil)
	}

	var body struct {
		Body string `json:"body"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	var p models.Post
	if err := database.DB.First(&p, id).Error; err != nil {
		return response.NotFound(c, "Post")
	}

	if p.AuthorID != userID {
		return response.Forbidden(c, "You can only edit your own posts")
	}

	cleaned, err := CleanBody(body.Body)
	if err != nil {
		return response.ValidationError(c, map[string]string{"body": err.Error()})
	}

	p.Body = cleaned
	if err := database.DB.Save(&p).Error; err != nil {
		return response.InternalError(c, "Failed to update post")
	}

	database.DB.Preload("Author").First(&p, p.ID)

	return response.Success(c, p, "Post updated successfully")
}

func DeleteHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid post ID", nil)
	}

	var p models.Post
	if err := database.DB.First(&p, id).Error; err != nil {
		return response.NotFound(c, "Post")
	}

	if p.AuthorID != userID {
		return response.Forbidden(c, "You can only delete your own posts")
	}

	if err := database.DB.Delete(&p).Error; err != nil {
		return response.InternalError(c, "Failed to delete post")
	}

	return response.NoContent(c)
}

// ListByUserHandler pages through one author's posts, newest first.
func ListByUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return response.NotFound(c, "User")
	}

	limit := c.QueryInt("limit", feed.DefaultLimit)
	posts, next, err := Feed.AuthorPosts(uint(id), c.Query("cursor"), limit)
	if err != nil {
		if errors.Is(err, feed.ErrMalformedCursor) {
			return response.BadRequest(c, "Invalid cursor", nil)
		}
		return response.InternalError(c, "Failed to fetch posts")
	}

	return response.SuccessWithMeta(c, posts, response.CursorMeta(limit, next), "Posts retrieved successfully")
}

// FeedHandler returns the authenticated user's merged timeline.
func FeedHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	limit := c.QueryInt("limit", feed.DefaultLimit)
	posts, next, err := Feed.BuildFeed(userID, c.Query("cursor"), limit)
	if err != nil {
		if errors.Is(err, feed.ErrMalformedCursor) {
			return response.BadRequest(c, "Invalid cursor", nil)
		}
		return response.InternalError(c, "Failed to build feed")
	}

	return response.SuccessWithMeta(c, posts, response.CursorMeta(limit, next), "Feed retrieved successfully")
}
