package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"allinone-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSyncStartStatusStop(t *testing.T) {
	server, store, tokens := newTestServer(t)
	session := loginTestUser(t, store, tokens)

	rec := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/sync/start", nil), session)
	server.StartSyncHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The immediate pass against the mock client logs exactly one entry.
	require.Eventually(t, func() bool {
		logs, err := store.ListSyncLogs(context.Background(), session.UserID, 10, 0)
		return err == nil && len(logs) == 1
	}, 2*time.Second, 20*time.Millisecond)

	// The busy flag drops right after the pass writes its log entry.
	var status SyncStatusResponse
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil), session)
		server.SyncStatusHandler(rec, req)
		if rec.Code != http.StatusOK {
			return false
		}
		status = SyncStatusResponse{}
		decodeBody(t, rec, &status)
		return status.State == "syncing" && !status.PassInFlight
	}, 2*time.Second, 20*time.Millisecond)
	require.True(t, status.Success)

	rec = httptest.NewRecorder()
	req = withSession(httptest.NewRequest(http.MethodPost, "/api/v1/sync/stop", nil), session)
	server.StopSyncHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = withSession(httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil), session)
	server.SyncStatusHandler(rec, req)
	decodeBody(t, rec, &status)
	require.Equal(t, "idle", status.State)
}

func TestSyncLogsHandler(t *testing.T) {
	server, store, tokens := newTestServer(t)
	session := loginTestUser(t, store, tokens)

	for i := 0; i < 3; i++ {
		err := store.InsertSyncLog(context.Background(), models.SyncLogEntry{
			ID:         uuid.New(),
			UserID:     session.UserID,
			GameSource: "newday",
			ItemsAdded: i,
			SyncStatus: models.SyncLogCompleted,
		})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/sync/logs?limit=2", nil), session)
	server.SyncLogsHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SyncLogsResponse
	decodeBody(t, rec, &resp)
	require.True(t, resp.Success)
	require.Len(t, resp.Logs, 2)
	require.Equal(t, 2, resp.Logs[0].ItemsAdded)
}
