// Package events defines the notifications emitted when the workflow catalog changes.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carrying every catalog event.
const Topic = "flowbuilder.workflows"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowSavedEvent    EventType = "workflow.saved"
	WorkflowDeletedEvent  EventType = "workflow.deleted"
	WorkflowImportedEvent EventType = "workflow.imported"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a new event of the given type.
func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

// WorkflowSaved is emitted after a workflow was written to the catalog.
type WorkflowSaved struct {
	BaseEvent

	Name      string `json:"name"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
	Created   bool   `json:"created"`
}

func (w WorkflowSaved) GetType() EventType {
	return WorkflowSavedEvent
}

// WorkflowDeleted is emitted after a workflow was removed from the catalog.
type WorkflowDeleted struct {
	BaseEvent

	Name string `json:"name"`
}

func (w WorkflowDeleted) GetType() EventType {
	return WorkflowDeletedEvent
}

// WorkflowImported is emitted when an export document replaced the graph of a session.
type WorkflowImported struct {
	BaseEvent

	Name      string `json:"name"`
	NodeCount int    `json:"node_count"`
	Issues    int    `json:"issues"`
}

func (w WorkflowImported) GetType() EventType {
	return WorkflowImportedEvent
}
