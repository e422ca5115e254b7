package integration

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"

	"patent-scout-be/internal/entity"
	"patent-scout-be/internal/repository/specification"
	"patent-scout-be/internal/repository/unitofwork"
	"patent-scout-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.SessionRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Session Record Round Trip", func(t *testing.T) {
		ctx := context.Background()

		record := &entity.SessionRecord{
			Id:      uuid.New(),
			Label:   "integration test session",
			Library: "patents",
			State:   json.RawMessage(`{"library":"patents","filters":[]}`),
		}

		err := uow.SessionRepository().Create(ctx, record)
		assert.NoError(t, err)

		found, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: record.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, "patents", found.Library)
			assert.JSONEq(t, string(record.State), string(found.State))
		}

		// Autosave-shaped update: state only, no label
		record.State = json.RawMessage(`{"library":"patents","filters":[{"name":"keywords-include","order":1,"type":"list","value":["drone"]}]}`)
		record.Label = ""
		err = uow.SessionRepository().Save(ctx, record)
		assert.NoError(t, err)

		found, err = uow.SessionRepository().FindOne(ctx, specification.ByID{ID: record.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, "integration test session", found.Label, "save without label must not clear it")
			assert.Contains(t, string(found.State), "keywords-include")
		}

		err = uow.SessionRepository().Delete(ctx, record.Id)
		assert.NoError(t, err)
	})
}
