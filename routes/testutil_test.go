package routes

import (
	"os"
	"testing"

	"rentverse-server/models"
	"rentverse-server/storage"
	"rentverse-server/utils"

	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// useTestDB swaps the global store for a fresh in-memory database and
// restores the old value when the test finishes.
func useTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.PropertyType{},
		&models.Amenity{},
		&models.Property{},
		&models.PropertyApproval{},
		&models.Booking{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	previous := storage.DB
	storage.DB = db
	t.Cleanup(func() { storage.DB = previous })
	return db
}

// signTestToken returns a bearer token for the given identity, signed with
// the secret the test verifier uses.
func signTestToken(id uint, role string) string {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func testVerifier() *jwt.Verifier {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	return jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
}
