package service

import (
	"fmt"
	"testing"

	"skillforge_backend/internal/repository"
	"skillforge_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 打开独立的内存数据库并迁移全部模型
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newGoalService(db *gorm.DB) *GoalService {
	return NewGoalService(repository.NewGoalRepository(db), db)
}

func newChallengeService(db *gorm.DB) *ChallengeService {
	return NewChallengeService(
		repository.NewChallengeRepository(db),
		repository.NewGoalRepository(db),
		newGoalService(db),
	)
}

func newSubmissionService(db *gorm.DB) *SubmissionService {
	return NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewChallengeRepository(db),
		newGoalService(db),
		db,
	)
}

func newPeerReviewService(db *gorm.DB) *PeerReviewService {
	return NewPeerReviewService(
		repository.NewPeerReviewRepository(db),
		repository.NewSubmissionRepository(db),
	)
}
