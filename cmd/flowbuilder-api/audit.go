package main

import (
	"context"
	"log/slog"

	"github.com/dukex/flowbuilder/pkg/eventbus"
	"github.com/dukex/flowbuilder/pkg/events"
)

// registerAuditLog logs every catalog event delivered by subscriber.
func registerAuditLog(subscriber eventbus.EventSubscriber, logger *slog.Logger) error {
	handler := func(ctx context.Context, event any) error {
		switch e := event.(type) {
		case *events.WorkflowSaved:
			logger.InfoContext(ctx, "Workflow saved",
				"workflow_id", e.WorkflowID, "name", e.Name, "nodes", e.NodeCount, "edges", e.EdgeCount, "created", e.Created)
		case *events.WorkflowDeleted:
			logger.InfoContext(ctx, "Workflow deleted", "workflow_id", e.WorkflowID, "name", e.Name)
		case *events.WorkflowImported:
			logger.InfoContext(ctx, "Workflow imported", "name", e.Name, "nodes", e.NodeCount, "issues", e.Issues)
		}

		return nil
	}

	for _, eventType := range []events.EventType{
		events.WorkflowSavedEvent,
		events.WorkflowDeletedEvent,
		events.WorkflowImportedEvent,
	} {
		err := subscriber.Handle(eventType, handler)
		if err != nil {
			return err
		}
	}

	return nil
}
