package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/channelbridge/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	cfg := &config.DatabaseConfig{
		MaxOpenConns:    7,
		MaxIdleConns:    3,
		ConnMaxLifetime: 30,
		ConnMaxIdleTime: 5,
	}
	configurePool(mockDB, cfg)

	assert.Equal(t, 7, mockDB.Stats().MaxOpenConnections)
}

func TestDatabase_PoolStats(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	dialector := postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"})
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	db := &Database{DB: gormDB}

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	configurePool(sqlDB, &config.DatabaseConfig{MaxOpenConns: 9, MaxIdleConns: 2})

	stats, err := db.PoolStats()
	require.NoError(t, err)
	assert.Equal(t, 9, stats.MaxOpenConnections)

	require.NoError(t, db.Ping())
	require.NoError(t, db.Close())
}
