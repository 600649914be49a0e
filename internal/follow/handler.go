package follow

import (
	"github.com/Kyz7/microblog/internal/database"
	"github.com/Kyz7/microblog/internal/models"
	"github.com/Kyz7/microblog/internal/response"
	"github.com/gofiber/fiber/v2"
)

func FollowHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}
	followeeID := uint(id)

	if followeeID == userID {
		return response.BadRequest(c, "Cannot follow yourself", nil)
	}

	var followee models.User
	if err := database.DB.First(&followee, followeeID).Error; err != nil {
		return response.NotFound(c, "User")
	}

	var existing models.Follow
	if err := database.DB.Where("follower_id = ? AND followee_id = ?", userID, followeeID).First(&existing).Error; err == nil {
		return response.Conflict(c, "Already following this user")
	}

	f := models.Follow{
		FollowerID: userID,
		FolloweeID: followeeID,
	}

	if err := database.DB.Create(&f).Error; err != nil {
		return response.InternalError(c, "Failed to follow user")
	}

	return response.Created(c, f, "Now following user")
}

func UnfollowHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	res := database.DB.Where("follower_id = ? AND followee_id = ?", userID, uint(id)).Delete(&models.Follow{})
	if res.Error != nil {
		return response.InternalError(c, "Failed to unfollow user")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "Follow")
	}

	return response.NoContent(c)
}

func FollowersHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	var users []models.User
	err = database.DB.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", uint(id)).
		Find(&users).Error
	if err != nil {
		return response.InternalError(c, "Failed to fetch followers")
	}

	return response.Success(c, users, "Followers retrieved successfully")
}

func FollowingHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	var users []models.User
	err = database.DB.
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", uint(id)).
		Find(&users).Error
	if err != nil {
		return response.InternalError(c, "Failed to fetch following")
	}

	return response.Success(c, users, "Following retrieved successfully")
}
