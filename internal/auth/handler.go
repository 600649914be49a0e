package auth

import (
	"errors"
	"log"

	"github.com/Kyz7/microblog/internal/database"
	"github.com/Kyz7/microblog/internal/mail"
	"github.com/Kyz7/microblog/internal/models"
	"github.com/Kyz7/microblog/internal/response"
	"github.com/Kyz7/microblog/internal/session"
	"github.com/Kyz7/microblog/internal/token"
	"github.com/Kyz7/microblog/internal/tokenstore"
	"github.com/Kyz7/microblog/internal/utils"
	"github.com/gofiber/fiber/v2"
)

var (
	Sessions *session.Manager
	Mailer   mail.Mailer
)

// Setup wires the handlers to the session core. Called once from server
// construction.
func Setup(m *session.Manager, mailer mail.Mailer) {
	Sessions = m
	Mailer = mailer
}

func RegisterHandler(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Username == "" || body.Email == "" || body.Password == "" {
		return response.ValidationError(c, map[string]string{
			"username": "username is required",
			"email":    "email is required",
			"password": "password is required",
		})
	}

	var existing models.User
	if err := database.DB.Where("email = ? OR username = ?", body.Email, body.Username).First(&existing).Error; err == nil {
		return response.Conflict(c, "Username or email already registered")
	}

	hashedPassword, err := utils.HashPassword(body.Password)
	if err != nil {
		return response.InternalError(c, "Failed to hash password")
	}

	u := models.User{
		Username: body.Username,
		Email:    body.Email,
		Password: hashedPassword,
		Name:     body.Name,
	}

	if err := database.DB.Create(&u).Error; err != nil {
		return response.InternalError(c, "Failed to create user")
	}

	pair, err := Sessions.Login(u.ID)
	if err != nil {
		return response.InternalError(c, "Failed to issue tokens")
	}

	return response.Created(c, fiber.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
		"user":          u,
	}, "Registration successful")
}

func LoginHandler(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Email == "" || body.Password == "" {
		return response.ValidationError(c, map[string]string{
			"email":    "email is required",
			"password": "password is required",
		})
	}

	userID, err := VerifyCredentials(body.Email, body.Password)
	if err != nil {
		return response.Unauthorized(c, "Invalid email or password")
	}

	pair, err := Sessions.Login(userID)
	if err != nil {
		return response.InternalError(c, "Failed to issue tokens")
	}

	return response.Success(c, pair, "Login successful")
}

func RefreshHandler(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.RefreshToken == "" {
		return response.ValidationError(c, map[string]string{
			"refresh_token": "refresh_token is required",
		})
	}

	pair, err := Sessions.Refresh(body.RefreshToken)
	if err != nil {
		if isRefreshRejection(err) {
			return response.Unauthorized(c, "Invalid or expired refresh token")
		}
		log.Printf("Refresh failed: %v", err)
		return response.InternalError(c, "Failed to refresh tokens")
	}

	return response.Success(c, pair, "Token refreshed successfully")
}

// isRefreshRejection separates the token's own defects, which the client
// caused, from infrastructure failures, which it did not.
func isRefreshRejection(err error) bool {
	return errors.Is(err, token.ErrMalformed) ||
		errors.Is(err, token.ErrInvalidSignature) ||
		errors.Is(err, token.ErrExpired) ||
		errors.Is(err, token.ErrKindMismatch) ||
		errors.Is(err, tokenstore.ErrNotFound) ||
		errors.Is(err, tokenstore.ErrAlreadyUsed) ||
		errors.Is(err, tokenstore.ErrExpired)
}

func LogoutHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	if err := Sessions.Logout(userID); err != nil {
		return response.InternalError(c, "Failed to revoke tokens")
	}
	log.Printf("User %d logged out", userID)

	return response.Success(c, fiber.Map{"user_id": userID}, "Logout successful")
}

func ForgotPasswordHandler(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Email == "" {
		return response.ValidationError(c, map[string]string{
			"email": "email is required",
		})
	}

	// Always the same answer, so the endpoint leaks nothing about which
	// emails exist.
	var user models.User
	if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		return response.Success(c, nil, "If account exists, reset link has been sent")
	}

	resetToken, err := Sessions.RequestReset(user.ID)
	if err != nil {
		return response.InternalError(c, "Failed to generate reset token")
	}

	if err := Mailer.SendResetLink(user.Email, resetToken); err != nil {
		log.Printf("Failed to send reset mail to user %d: %v", user.ID, err)
	}

	return response.Success(c, nil, "If account exists, reset link has been sent")
}

func ResetPasswordHandler(c *fiber.Ctx) error {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Token == "" || body.NewPassword == "" {
		return response.ValidationError(c, map[string]string{
			"token":        "token is required",
			"new_password": "new_password is required",
		})
	}

	userID, err := Sessions.RedeemReset(body.Token)
	if err != nil {
		return response.BadRequest(c, "Invalid or expired token", nil)
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User")
	}

	hashedPassword, err := utils.HashPassword(body.NewPassword)
	if err != nil {
		return response.InternalError(c, "Failed to hash password")
	}
	user.Password = hashedPassword
	if err := database.DB.Save(&user).Error; err != nil {
		return response.InternalError(c, "Failed to update password")
	}

	return response.Success(c, nil, "Password reset successful")
}
