// Package audit records every verification that went through the service:
// who was looked up, through which workflow, and what verdict came out.
// Events flow through a channel-fed worker so domain code never blocks on
// persistence or the broker.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Workflows an event can originate from.
const (
	WorkflowGeneral         = "general"
	WorkflowMono            = "mono"
	WorkflowBatchEmployment = "batch_employment"
	WorkflowBatchMono       = "batch_mono"
)

// Event is one verification record. Subject is the document or CUIL that
// was verified, Verdict the headline label it received.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Workflow  string    `json:"workflow"`
	Subject   string    `json:"subject"`
	Verdict   string    `json:"verdict"`
	Detail    string    `json:"detail,omitempty"`
	ChannelID string    `json:"channel_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
