package database

import (
	"context"
	"testing"
	"time"

	"allinone-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSyncLogsNewestFirst(t *testing.T) {
	user := createTestUser(t)
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 3; i++ {
		entry := models.SyncLogEntry{
			ID:           uuid.New(),
			UserID:       user.ID,
			GameSource:   "newday",
			ItemsAdded:   i,
			SyncStatus:   models.SyncLogCompleted,
			StartedAt:    base.Add(time.Duration(i) * time.Second),
			FinishedAt:   base.Add(time.Duration(i)*time.Second + 100*time.Millisecond),
		}
		require.NoError(t, testStore.InsertSyncLog(context.Background(), entry))
	}

	logs, err := testStore.ListSyncLogs(context.Background(), user.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	require.Equal(t, 2, logs[0].ItemsAdded)
	require.Equal(t, 0, logs[2].ItemsAdded)
}

func TestSyncLogKeepsFailureMessage(t *testing.T) {
	user := createTestUser(t)
	msg := "serwis New Day niedostępny"

	entry := models.SyncLogEntry{
		ID:           uuid.New(),
		UserID:       user.ID,
		GameSource:   "newday",
		SyncStatus:   models.SyncLogFailed,
		ErrorMessage: &msg,
		StartedAt:    time.Now().UTC(),
		FinishedAt:   time.Now().UTC(),
	}
	require.NoError(t, testStore.InsertSyncLog(context.Background(), entry))

	logs, err := testStore.ListSyncLogs(context.Background(), user.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, models.SyncLogFailed, logs[0].SyncStatus)
	require.NotNil(t, logs[0].ErrorMessage)
	require.Equal(t, msg, *logs[0].ErrorMessage)
}

func TestSyncLogsPagination(t *testing.T) {
	user := createTestUser(t)
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		entry := models.SyncLogEntry{
			ID:         uuid.New(),
			UserID:     user.ID,
			GameSource: "newday",
			SyncStatus: models.SyncLogCompleted,
			StartedAt:  base.Add(time.Duration(i) * time.Second),
			FinishedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, testStore.InsertSyncLog(context.Background(), entry))
	}

	logs, err := testStore.ListSyncLogs(context.Background(), user.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	empty, err := testStore.ListSyncLogs(context.Background(), user.ID, 10, 100)
	require.NoError(t, err)
	require.Empty(t, empty)
}
