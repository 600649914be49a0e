package auth

import (
	"github.com/Kyz7/microblog/internal/database"
	"github.com/Kyz7/microblog/internal/models"
	"github.com/Kyz7/microblog/internal/session"
	"github.com/Kyz7/microblog/internal/utils"
)

// VerifyCredentials checks an email/password pair against the users table
// and returns the user id. The session core never sees credentials.
func VerifyCredentials(email, password string) (uint, error) {
	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return 0, session.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return 0, session.ErrInvalidCredentials
	}

	return user.ID, nil
}
