package dao

import (
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dskf/bookraffle-api/internal/domain"
)

// setupTestDB starts a throwaway Postgres container and migrates the
// schema into it. Skipped in short mode and when Docker is unreachable.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not construct docker pool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=bookraffle_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("could not purge resource: %v", err)
		}
	})
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("host=localhost port=%v user=postgres password=secret dbname=bookraffle_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	pool.MaxWait = 90 * time.Second
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(db))
	require.NoError(t, SeedRoles(db))

	return db
}

func createTestBook(t *testing.T, db *gorm.DB) Book {
	t.Helper()

	book := Book{
		Title:     "The Test Pyramid",
		Publisher: "Integration Press",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&book).Error)

	return book
}

func createTestUser(t *testing.T, db *gorm.DB, balance float64) User {
	t.Helper()

	var role Role
	require.NoError(t, db.Where("name = ?", domain.RoleMember).First(&role).Error)

	user := User{
		FirstName:      "Pat",
		LastName:       "Buyer",
		EmailAddress:   fmt.Sprintf("buyer-%d@example.com", time.Now().UnixNano()),
		Password:       "not-a-real-hash",
		RoleID:         role.ID,
		AccountBalance: balance,
	}
	require.NoError(t, db.Create(&user).Error)

	return user
}

func createTestRaffle(t *testing.T, db *gorm.DB, bookID uint, limit int, active bool) Raffle {
	t.Helper()

	raffle := Raffle{
		BookID:           bookID,
		ParticipantLimit: limit,
		IsActive:         active,
	}
	require.NoError(t, db.Create(&raffle).Error)

	return raffle
}
