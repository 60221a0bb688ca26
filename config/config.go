package config

import (
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"foodie-api/models"
)

var DB *gorm.DB

// JWTSecret signs and verifies access tokens.
var JWTSecret []byte

// Load reads .env (when present) and resolves secrets. Call before InitDB.
func Load(log *logrus.Logger) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using process environment")
	}
	JWTSecret = []byte(getEnv("JWT_SECRET", "foodie_super_secret_2024"))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the sqlite database and migrates all models.
func InitDB(log *logrus.Logger) {
	path := getEnv("DATABASE_PATH", "foodie.db")
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := Migrate(DB); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	log.WithField("path", path).Info("database connected and migrated")
}

// Migrate runs the schema migration on any gorm handle. Exposed so handler
// tests can run against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.CartRecord{},
	)
}
