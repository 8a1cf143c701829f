package jobs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLowStockScanTaskPayload(t *testing.T) {
	task, err := NewLowStockScanTask(50)
	require.NoError(t, err)
	assert.Equal(t, TaskLowStockScan, task.Type())

	var payload LowStockScanPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, 50, payload.Threshold)
}

func TestHealthWithoutInspector(t *testing.T) {
	h := NewHandler(nil, testLogger())
	r := chi.NewRouter()
	h.MountRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}

func TestHealthReportsPending(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := asynq.RedisClientOpt{Addr: mr.Addr()}

	client, err := NewClient(opts)
	require.NoError(t, err)
	defer client.Close()

	task, err := NewLowStockScanTask(50)
	require.NoError(t, err)
	_, err = client.Enqueue(context.Background(), task)
	require.NoError(t, err)

	h := NewHandler(asynq.NewInspector(opts), testLogger())
	r := chi.NewRouter()
	h.MountRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":1}`, rec.Body.String())
}

func TestNewWorkerRejectsBadCron(t *testing.T) {
	mr := miniredis.RunT(t)
	task, err := NewBalanceIntegrityTask(time.Now())
	require.NoError(t, err)

	_, err = NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: mr.Addr()},
		Logger:    testLogger(),
		Cron:      []CronRegistration{{Spec: "not a cron", Task: task}},
	})
	require.Error(t, err)
}
