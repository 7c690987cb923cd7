package services

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/flowbuilder/pkg/editor"
	"github.com/dukex/flowbuilder/pkg/eventbus"
	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/otelhelper"
)

// Workspace is the editing session shared by the services. Every service operation reads the
// current state, decides on an action and applies it as one step.
type Workspace struct {
	mu       sync.Mutex
	session  *editor.Session
	eventBus eventbus.EventPublisher
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewWorkspace wraps session. eventBus may be nil, in which case no events are published.
func NewWorkspace(session *editor.Session, eventBus eventbus.EventPublisher, tracer trace.Tracer, logger *slog.Logger) *Workspace {
	if tracer == nil {
		tracer = otelhelper.NewNoopTracer()
	}

	return &Workspace{
		session:  session,
		eventBus: eventBus,
		tracer:   tracer,
		logger:   logger.With("module", "workspace"),
	}
}

// State returns the current editing state.
func (w *Workspace) State() editor.State {
	return w.session.State()
}

// planFunc inspects the current state and returns the action to apply, or an error that aborts
// the operation before anything changes.
type planFunc func(state editor.State) (editor.Action, error)

// apply runs plan and dispatches its action with no other operation in between. It returns the
// states before and after the action.
func (w *Workspace) apply(ctx context.Context, op string, plan planFunc, attrs ...attribute.KeyValue) (editor.State, editor.State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workspace."+op, attrs...)
	defer span.End()

	before := w.session.State()

	action, err := plan(before)
	if err != nil {
		otelhelper.SetError(span, err)

		return before, before, err
	}

	span.SetAttributes(attribute.String(otelhelper.ActionKey, action.ActionName()))

	after := w.session.Dispatch(ctx, action)

	span.SetAttributes(
		attribute.Int(otelhelper.NodeCountKey, len(after.Nodes)),
		attribute.Int(otelhelper.EdgeCountKey, len(after.Edges)),
	)
	otelhelper.SetIssues(span, after.Issues)

	return before, after, nil
}

// export builds the export document of the current graph.
func (w *Workspace) export(ctx context.Context, name string) (*models.ExportDocument, editor.State) {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, span := otelhelper.StartSpan(ctx, w.tracer, "workspace.export", attribute.String(otelhelper.WorkflowNameKey, name))
	defer span.End()

	document, state := w.session.Export(name)
	if document == nil {
		otelhelper.SetIssues(span, state.Issues)
	}

	return document, state
}

// publish sends a catalog event. Failures are logged and never fail the operation.
func (w *Workspace) publish(ctx context.Context, key string, event eventbus.Event) {
	if w.eventBus == nil {
		return
	}

	err := w.eventBus.Publish(ctx, key, event)
	if err != nil {
		w.logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "key", key, "error", err)
	}
}

// always returns a plan that applies action unconditionally.
func always(action editor.Action) planFunc {
	return func(editor.State) (editor.Action, error) {
		return action, nil
	}
}
