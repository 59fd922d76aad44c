package amqp

import (
	"encoding/json"
	"time"
)

// ReportExportMessage asks the exporter worker to build a yearly report for
// a user and append it to the spreadsheet. It carries only identifiers; the
// worker loads the session from storage and the figures from the remote
// services.
type ReportExportMessage struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Year      int       `json:"year"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportExportMessage creates an export request for the given session and year.
func NewReportExportMessage(sessionID, userID string, year int) *ReportExportMessage {
	return &ReportExportMessage{
		SessionID: sessionID,
		UserID:    userID,
		Year:      year,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportExportMessageFromJSON decodes a message from JSON bytes.
func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
