package amqp

import (
	"encoding/json"
	"time"
)

// ReportBuildMessage asks the worker to build reports for a stored
// ledger. It carries only identifiers; the worker fetches the ledger
// from the database.
type ReportBuildMessage struct {
	LedgerID  int64     `json:"ledger_id"`
	RunID     int64     `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportBuildMessage creates a build message for a ledger and run.
func NewReportBuildMessage(ledgerID, runID int64) *ReportBuildMessage {
	return &ReportBuildMessage{
		LedgerID:  ledgerID,
		RunID:     runID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportBuildMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportBuildMessageFromJSON creates a message from JSON bytes
func ReportBuildMessageFromJSON(data []byte) (*ReportBuildMessage, error) {
	var msg ReportBuildMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
