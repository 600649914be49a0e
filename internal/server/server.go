package server

import (
	"github.com/Kyz7/microblog/internal/auth"
	"github.com/Kyz7/microblog/internal/config"
	"github.com/Kyz7/microblog/internal/feed"
	"github.com/Kyz7/microblog/internal/mail"
	"github.com/Kyz7/microblog/internal/post"
	"github.com/Kyz7/microblog/internal/session"
	"github.com/Kyz7/microblog/internal/token"
	"github.com/Kyz7/microblog/internal/tokenstore"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// New builds the app and wires the auth core and feed builder into the
// handler packages.
func New(db *gorm.DB, cfg *config.Config, mailer mail.Mailer) *fiber.App {
	codec := token.NewCodec([]byte(cfg.JWTSecret))
	store := tokenstore.New(db)
	sessions := session.NewManager(codec, store, cfg.AccessTTL, cfg.RefreshTTL, cfg.ResetTTL)

	var verifier session.Verifier = sessions
	if cfg.AuthDisabled {
		verifier = session.DisabledVerifier{UserID: 1}
	}

	auth.Setup(sessions, mailer)
	auth.SetVerifier(verifier)
	post.Setup(feed.NewBuilder(db))

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Static("/uploads", "./uploads", fiber.Static{
		Compress:  true,
		ByteRange: true,
		Browse:    false,
		MaxAge:    3600,
	})

	SetupRoutes(app)

	return app
}
