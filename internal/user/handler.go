package user

import (
	"github.com/Kyz7/microblog/internal/database"
	"github.com/Kyz7/microblog/internal/models"
	"github.com/Kyz7/microblog/internal/response"
	"github.com/Kyz7/microblog/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func GetUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return response.NotFound(c, "User")
	}

	return response.Success(c, user, "User retrieved successfully")
}

func MeHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User")
	}

	return response.Success(c, user, "User retrieved successfully")
}

// UpdateMeHandler changes profile fields only. Username and email are
// identity and stay immutable here.
func UpdateMeHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body struct {
		Name    string         `json:"name"`
		Bio     string         `json:"bio"`
		Profile datatypes.JSON `json:"profile"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User")
	}

	if body.Name != "" {
		user.Name = body.Name
	}
	if body.Bio != "" {
		user.Bio = body.Bio
	}
	if len(body.Profile) > 0 {
		user.Profile = body.Profile
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return response.InternalError(c, "Failed to update user")
	}

	return response.Success(c, user, "User updated successfully")
}

func UploadAvatarHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	file, err := c.FormFile("avatar")
	if err != nil {
		return response.BadRequest(c, "avatar file is required", nil)
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User")
	}

	url, err := utils.UploadFile(file)
	if err != nil {
		return response.InternalError(c, "Failed to upload avatar")
	}

	if user.AvatarURL != "" {
		_ = utils.DeleteFile(user.AvatarURL)
	}

	user.AvatarURL = url
	if err := database.DB.Save(&user).Error; err != nil {
		return response.InternalError(c, "Failed to update user")
	}

	return response.Success(c, user, "Avatar uploaded successfully")
}
