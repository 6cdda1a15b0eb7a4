package database

import (
	"fmt"
	"testing"

	"learnhub/config"
	"learnhub/logger"
	"learnhub/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBDriver = "oracle"
	_, err := Dialector(cfg)
	assert.Error(t, err)

	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		cfg.DBDriver = driver
		d, err := Dialector(cfg)
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}
}

func TestConnectDbMigratesSqlite(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBPath = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := ConnectDb(cfg, logger.Discard())
	require.NoError(t, err)
	assert.Same(t, db, Database.Db)

	for _, m := range []any{&models.User{}, &models.Course{}, &models.Payment{}, &models.Notification{}, &models.VideoProgress{}, &models.ClientLog{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasIndex(&models.VideoProgress{}, "idx_video_progress_user_video"))
}

func TestInitRedisDisabledWithoutAddress(t *testing.T) {
	assert.Nil(t, InitRedis(config.Defaults(), logger.Discard()))
}
