package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEarningsHandler(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/earnings?power=500&networkPower=1000&rewardPool=100", nil)
	server.EarningsHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EarningsResponse
	decodeBody(t, rec, &resp)
	require.True(t, resp.Success)
	require.InDelta(t, 50.0, resp.Earnings.DailyEarning, 0.001)
	require.InDelta(t, 2.08, resp.Earnings.HourlyEarning, 0.001)
	require.InDelta(t, 1500.0, resp.Earnings.MonthlyEarning, 0.001)
}

func TestEarningsHandlerDefaultsFromConfig(t *testing.T) {
	server, _, _ := newTestServer(t)

	// networkPower and rewardPool fall back to the platform configuration
	// (1 000 000 and 10 000 in the test harness).
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings?power=100000", nil)
	server.EarningsHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EarningsResponse
	decodeBody(t, rec, &resp)
	require.InDelta(t, 1000.0, resp.Earnings.DailyEarning, 0.001)
}

func TestEarningsHandlerValidation(t *testing.T) {
	server, _, _ := newTestServer(t)

	for _, target := range []string{
		"/api/v1/earnings",
		"/api/v1/earnings?power=abc",
		"/api/v1/earnings?power=100&networkPower=0",
		"/api/v1/earnings?power=-5",
	} {
		rec := httptest.NewRecorder()
		server.EarningsHandler(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestAddExperienceHandler(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/api/v1/earnings/level", AddExperienceRequest{
		Level:      1,
		Experience: 999,
		Amount:     1,
	})
	server.AddExperienceHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProgressionResponse
	decodeBody(t, rec, &resp)
	require.True(t, resp.Success)
	require.Equal(t, 2, resp.Level)
	require.InDelta(t, 0.0, resp.Experience, 0.001)
	require.InDelta(t, 1500.0, resp.NextLevelAt, 0.001)
}

func TestAddExperienceRejectsNegative(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/api/v1/earnings/level", AddExperienceRequest{
		Level:  1,
		Amount: -10,
	})
	server.AddExperienceHandler(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
