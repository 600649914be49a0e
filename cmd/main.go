package main

import (
	"log"
	"os"
	"time"

	"github.com/Kyz7/microblog/internal/config"
	"github.com/Kyz7/microblog/internal/database"
	"github.com/Kyz7/microblog/internal/mail"
	"github.com/Kyz7/microblog/internal/server"
	"github.com/Kyz7/microblog/internal/tokenstore"
	"github.com/Kyz7/microblog/internal/utils"
)

func main() {
	cfg := config.Load()

	if err := cfg.ValidateJWTSecret(); err != nil {
		log.Fatal("❌ JWT Configuration Error: ", err)
	}
	log.Println("✅ JWT secret validated")

	requiredEnvVars := map[string]string{
		"DB_HOST":     os.Getenv("DB_HOST"),
		"DB_NAME":     os.Getenv("DB_NAME"),
		"DB_USER":     os.Getenv("DB_USER"),
		"DB_PASSWORD": os.Getenv("DB_PASSWORD"),
	}

	for key, value := range requiredEnvVars {
		if value == "" {
			log.Fatalf("❌ Required environment variable %s is not set", key)
		}
	}
	log.Println("✅ Required environment variables validated")

	// ========== DATABASE SETUP ==========
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Migration failed: ", err)
	}
	log.Println("✅ Database migrated successfully")

	// ========== STORAGE SETUP ==========
	if err := utils.InitLocalStorage(); err != nil {
		log.Fatal("❌ Failed to initialize local storage:", err)
	}
	log.Println("✅ Local storage initialized at ./uploads/")

	useS3 := os.Getenv("USE_S3")
	if useS3 == "true" {
		s3Bucket := os.Getenv("S3_BUCKET")
		s3Region := os.Getenv("S3_REGION")
		cloudfrontURL := os.Getenv("CLOUDFRONT_URL")

		if s3Bucket != "" && s3Region != "" {
			if err := utils.InitS3(s3Bucket, s3Region, cloudfrontURL); err != nil {
				log.Println("⚠️  S3 initialization failed:", err)
				log.Println("⚠️  Falling back to local storage")
				utils.SetStorageMode(true)
			} else {
				log.Println("✅ S3 initialized successfully")
				log.Printf("☁️  Using S3: %s (region: %s)", s3Bucket, s3Region)
			}
		} else {
			log.Println("⚠️  USE_S3=true but S3_BUCKET or S3_REGION not configured")
			log.Println("⚠️  Falling back to local storage")
		}
	} else {
		log.Println("💾 Using LOCAL storage mode (./uploads/)")
		utils.SetStorageMode(true)
	}

	// ========== BACKGROUND JOBS ==========
	store := tokenstore.New(db)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			n, err := store.DeleteExpired()
			if err != nil {
				log.Printf("⚠️  Token sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("🧹 Cleaned up %d expired token records", n)
			}
		}
	}()

	// ========== START SERVER ==========
	mailer := &mail.SMTPMailer{
		Addr:     cfg.SMTPAddr,
		From:     cfg.SMTPFrom,
		Password: cfg.SMTPPassword,
		Host:     cfg.SMTPHost,
		ResetURL: cfg.ResetURL,
	}

	app := server.New(db, cfg, mailer)

	log.Printf("🚀 Microblog server starting on %s", cfg.ServerAddr)
	log.Printf("💾 Storage Mode: %s", utils.GetStorageMode())
	if cfg.AuthDisabled {
		log.Printf("⚠️  Authentication DISABLED: every request runs as user 1")
	} else {
		log.Printf("🔐 JWT Authentication: Enabled")
	}

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}
