package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dukex/flowbuilder/pkg/editor"
	"github.com/dukex/flowbuilder/pkg/events"
	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/otelhelper"
	"github.com/dukex/flowbuilder/pkg/persistence"
	"github.com/dukex/flowbuilder/pkg/validation"
)

// Workflow handles the workflow catalog and the whole-graph operations.
type Workflow struct {
	workspace   *Workspace
	persistence persistence.Persistence
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(workspace *Workspace, persistence persistence.Persistence) *Workflow {
	return &Workflow{
		workspace:   workspace,
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// State returns the current editing state.
func (w *Workflow) State() editor.State {
	return w.workspace.State()
}

// ListWorkflowsRequest contains options for listing workflows.
type ListWorkflowsRequest struct {
	// Pagination
	Limit  int `validate:"min=1,max=100"`
	Offset int `validate:"min=0"`

	// Filtering
	Name string

	// Sorting
	SortBy    string `validate:"oneof=created_at updated_at name"`
	SortOrder string `validate:"oneof=asc desc"`
}

// ListWorkflowsResponse contains the result of listing workflows.
type ListWorkflowsResponse struct {
	Workflows   []*models.Workflow `json:"workflows"`
	TotalCount  int64              `json:"total_count"`
	HasNextPage bool               `json:"has_next_page"`
}

// ListWorkflows returns a page of the catalog, filtered by name and sorted.
func (w *Workflow) ListWorkflows(_ context.Context, req ListWorkflowsRequest) (*ListWorkflowsResponse, error) {
	err := w.validateListWorkflowsRequest(&req)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	matches := make([]*models.Workflow, 0, len(w.workspace.State().Workflows))

	for _, workflow := range w.workspace.State().Workflows {
		if workflow == nil {
			continue
		}

		if req.Name != "" && !strings.Contains(strings.ToLower(workflow.Name), strings.ToLower(req.Name)) {
			continue
		}

		matches = append(matches, workflow)
	}

	slices.SortStableFunc(matches, compareWorkflows(req.SortBy, req.SortOrder))

	total := len(matches)
	start := min(req.Offset, total)
	end := min(start+req.Limit, total)

	return &ListWorkflowsResponse{
		Workflows:   matches[start:end],
		TotalCount:  int64(total),
		HasNextPage: end < total,
	}, nil
}

func compareWorkflows(sortBy, sortOrder string) func(a, b *models.Workflow) int {
	return func(a, b *models.Workflow) int {
		var result int

		switch sortBy {
		case "name":
			result = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case "updated_at":
			result = a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			result = a.CreatedAt.Compare(b.CreatedAt)
		}

		if sortOrder == "desc" {
			return -result
		}

		return result
	}
}

// validateListWorkflowsRequest validates and sets defaults for the request.
func (w *Workflow) validateListWorkflowsRequest(req *ListWorkflowsRequest) error {
	// Set defaults
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	req.Name = strings.TrimSpace(req.Name)

	// Validate sort parameters against allowlist
	allowedSorts := []string{"created_at", "updated_at", "name"}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListWorkflowsRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	// Validate sort order
	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"validateListWorkflowsRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	return nil
}

// FetchByID retrieves a workflow of the catalog by its ID.
func (w *Workflow) FetchByID(_ context.Context, id string) (*models.Workflow, error) {
	workflow := models.FindWorkflow(w.workspace.State().Workflows, id)
	if workflow == nil {
		return nil, ErrWorkflowNotFound
	}

	return workflow, nil
}

// Reload refreshes the catalog from persistence. An unreachable backend leaves an empty catalog
// and an issue in the state.
func (w *Workflow) Reload(ctx context.Context) (editor.State, error) {
	_, after, err := w.workspace.apply(ctx, "reload", always(editor.LoadAllWorkflows{}))

	return after, err
}

// Open loads a workflow of the catalog into the editor.
func (w *Workflow) Open(ctx context.Context, id string) (editor.State, error) {
	_, after, err := w.workspace.apply(ctx, "open", func(state editor.State) (editor.Action, error) {
		if models.FindWorkflow(state.Workflows, id) == nil {
			return nil, ErrWorkflowNotFound
		}

		return editor.OpenWorkflow{ID: id}, nil
	}, attribute.String(otelhelper.WorkflowIDKey, id))

	return after, err
}

// Save writes the graph to the catalog under name. The graph is refused with its blocking issues
// when it is invalid or the name is blank.
func (w *Workflow) Save(ctx context.Context, name string) (*models.Workflow, editor.State, error) {
	before, after, err := w.workspace.apply(ctx, "save", always(editor.SaveWorkflow{Name: name}),
		attribute.String(otelhelper.WorkflowNameKey, name))
	if err != nil {
		return nil, after, err
	}

	if after.Issues.HasBlocking() {
		if validation.Validate(before.Nodes, before.Edges).HasBlocking() || strings.TrimSpace(name) == "" {
			return nil, after, newRejectedError("Save", after.Issues)
		}

		return nil, after, &ServiceError{
			Op:      "Save",
			Code:    "CATALOG_UNAVAILABLE",
			Message: strings.Join(after.Issues.Messages(), "; "),
			Err:     ErrCatalogUnavailable,
		}
	}

	saved := after.CurrentWorkflow()
	if saved == nil {
		return nil, after, &ServiceError{Op: "Save", Message: "saved workflow missing from catalog", Err: ErrCatalogUnavailable}
	}

	w.workspace.publish(ctx, saved.ID, events.WorkflowSaved{
		BaseEvent: events.NewBaseEvent(events.WorkflowSavedEvent, saved.ID),
		Name:      saved.Name,
		NodeCount: len(saved.Nodes),
		EdgeCount: len(saved.Edges),
		Created:   models.FindWorkflow(before.Workflows, saved.ID) == nil,
	})

	return saved, after, nil
}

// Delete removes a workflow from the catalog.
func (w *Workflow) Delete(ctx context.Context, id string) (editor.State, error) {
	var deleted *models.Workflow

	_, after, err := w.workspace.apply(ctx, "delete", func(state editor.State) (editor.Action, error) {
		deleted = models.FindWorkflow(state.Workflows, id)
		if deleted == nil {
			return nil, ErrWorkflowNotFound
		}

		return editor.DeleteWorkflow{ID: id}, nil
	}, attribute.String(otelhelper.WorkflowIDKey, id))
	if err != nil {
		return after, err
	}

	if models.FindWorkflow(after.Workflows, id) != nil {
		return after, &ServiceError{
			Op:      "Delete",
			Code:    "CATALOG_UNAVAILABLE",
			Message: strings.Join(after.Issues.Messages(), "; "),
			Err:     ErrCatalogUnavailable,
		}
	}

	w.workspace.publish(ctx, id, events.WorkflowDeleted{
		BaseEvent: events.NewBaseEvent(events.WorkflowDeletedEvent, id),
		Name:      deleted.Name,
	})

	return after, nil
}

// Validate runs the validator over the graph and publishes the result as issues.
func (w *Workflow) Validate(ctx context.Context) (editor.State, error) {
	_, after, err := w.workspace.apply(ctx, "validate", always(editor.ValidateGraph{}))

	return after, err
}

// Reset returns the editor to a blank graph.
func (w *Workflow) Reset(ctx context.Context) (editor.State, error) {
	_, after, err := w.workspace.apply(ctx, "reset", always(editor.ResetWorkflow{}))

	return after, err
}
