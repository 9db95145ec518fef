package database

import (
	"context"
	"fmt"
	"testing"

	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newScopedDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, RunMigration(db))

	return db
}

func TestActAsRequiresUser(t *testing.T) {
	err := ActAs(newScopedDB(t), context.Background(), "", func(tx *gorm.DB) error {
		t.Fatal("fn must not run without an acting user")
		return nil
	})
	assert.Error(t, err)
}

func TestActAsRollsBackOnError(t *testing.T) {
	db := newScopedDB(t)

	err := ActAs(db, context.Background(), "user-1", func(tx *gorm.DB) error {
		if err := tx.Create(&models.Call{ExternalID: "call-1", AccountID: "user-1"}).Error; err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Call{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestActAsCommits(t *testing.T) {
	db := newScopedDB(t)

	err := ActAs(db, context.Background(), "user-1", func(tx *gorm.DB) error {
		return tx.Create(&models.Call{ExternalID: "call-1", AccountID: "user-1"}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Call{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
