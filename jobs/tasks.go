package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBalanceIntegrity recomputes customer due and product stock from the
	// document ledger and reports drift against the denormalized counters.
	TaskBalanceIntegrity = "integrity:balances"
	// TaskLowStockScan flags active products running under the stock threshold.
	TaskLowStockScan = "stock:lowscan"
)

// BalanceIntegrityPayload carries scheduling metadata.
type BalanceIntegrityPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewBalanceIntegrityTask constructs an Asynq task for the nightly balance scan.
func NewBalanceIntegrityTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(BalanceIntegrityPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBalanceIntegrity, body, asynq.Queue(QueueDefault)), nil
}

// LowStockScanPayload sets the piece threshold for the scan.
type LowStockScanPayload struct {
	Threshold int `json:"threshold"`
}

// NewLowStockScanTask constructs an Asynq task for the low stock scan.
func NewLowStockScanTask(threshold int) (*asynq.Task, error) {
	body, err := json.Marshal(LowStockScanPayload{Threshold: threshold})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}
