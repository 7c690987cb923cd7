// Package web provides HTTP handlers and REST API endpoints for the workflow builder.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dukex/flowbuilder/pkg/editor"
	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/registry"
	"github.com/dukex/flowbuilder/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	workflowService   *services.Workflow
	nodeService       *services.Node
	publishingService *services.Publishing
	validator         *validator.Validate
	registry          *registry.Registry
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	nodeService *services.Node,
	publishingService *services.Publishing,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		workflowService:   workflowService,
		nodeService:       nodeService,
		publishingService: publishingService,
		validator:         validator,
		registry:          registry,
	}
}

// Register mounts every builder route on router.
func (h *APIHandlers) Register(router fiber.Router) {
	e := router.Group("/editor")
	e.Get("/", h.GetState)
	e.Get("/palette", h.GetPalette)
	e.Post("/nodes", h.CreateNode)
	e.Put("/nodes", h.ReplaceNodes)
	e.Get("/nodes/:id", h.GetNode)
	e.Patch("/nodes/:id/config", h.UpdateNodeConfig)
	e.Patch("/nodes/:id/position", h.MoveNode)
	e.Delete("/nodes/:id", h.DeleteNode)
	e.Post("/nodes/:id/delete-request", h.RequestDeleteNode)
	e.Post("/deletion/confirm", h.ConfirmDeleteNode)
	e.Post("/deletion/cancel", h.CancelDeleteNode)
	e.Post("/edges", h.Connect)
	e.Put("/edges", h.ReplaceEdges)
	e.Delete("/edges/:id", h.Disconnect)
	e.Post("/selection", h.SelectNode)
	e.Post("/validate", h.Validate)
	e.Post("/save", h.Save)
	e.Post("/reset", h.Reset)
	e.Get("/export", h.Export)
	e.Post("/import", h.Import)

	w := router.Group("/workflows")
	w.Get("/", h.GetWorkflows)
	w.Post("/reload", h.ReloadWorkflows)
	w.Get("/:id", h.GetWorkflow)
	w.Post("/:id/open", h.OpenWorkflow)
	w.Delete("/:id", h.DeleteWorkflow)

	router.Get("/health", h.HealthCheck)
}

func (h *APIHandlers) GetState(c fiber.Ctx) error {
	return c.JSON(TransformState(h.workflowService.State()))
}

func (h *APIHandlers) GetPalette(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"node_types": h.registry.GetAvailableNodes()})
}

func (h *APIHandlers) CreateNode(c fiber.Ctx) error {
	var req CreateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, state, err := h.nodeService.CreateNode(c.Context(), &services.CreateNodeRequest{
		Kind:     models.NodeKind(req.Kind),
		Label:    req.Label,
		Position: req.Position,
		Config:   req.Config,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(NodeResponse{Node: node, State: TransformState(state)})
}

func (h *APIHandlers) GetNode(c fiber.Ctx) error {
	node, err := h.nodeService.GetNode(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) ReplaceNodes(c fiber.Ctx) error {
	var req ReplaceNodesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	return h.stateResult(c, func() (editor.State, error) {
		return h.nodeService.ReplaceNodes(c.Context(), req.Nodes)
	})
}

func (h *APIHandlers) ReplaceEdges(c fiber.Ctx) error {
	var req ReplaceEdgesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	return h.stateResult(c, func() (editor.State, error) {
		return h.nodeService.ReplaceEdges(c.Context(), req.Edges)
	})
}

func (h *APIHandlers) UpdateNodeConfig(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Node ID is required")
	}

	node, state, err := h.nodeService.UpdateNodeConfig(c.Context(), id, c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(NodeResponse{Node: node, State: TransformState(state)})
}

func (h *APIHandlers) MoveNode(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Node ID is required")
	}

	var req MoveNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, state, err := h.nodeService.MoveNode(c.Context(), id, models.Position{X: *req.X, Y: *req.Y})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(NodeResponse{Node: node, State: TransformState(state)})
}

func (h *APIHandlers) DeleteNode(c fiber.Ctx) error {
	return h.stateResult(c, func() (editor.State, error) {
		return h.nodeService.DeleteNode(c.Context(), c.Params("id"))
	})
}

func (h *APIHandlers) RequestDeleteNode(c fiber.Ctx) error {
	return h.stateResult(c, func() (editor.State, error) {
		return h.nodeService.RequestDeleteNode(c.Context(), c.Params("id"))
	})
}

func (h *APIHandlers) ConfirmDeleteNode(c fiber.Ctx) error {
	return h.stateResult(c, func() (editor.State, error) {
		return h.nodeService.ConfirmDeleteNode(c.Context())
	})
}

func (h *APIHandlers) CancelDeleteNode(c fiber.Ctx) error {
	return h.stateResult(c, func() (editor.State, error) {
		return h.nodeService.CancelDeleteNode(c.Context())
	})
}

func (h *APIHandlers) Connect(c fiber.Ctx) error {
	var req ConnectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	edge, state, err := h.nodeService.Connect(c.Context(), req.Source, req.Target)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(EdgeResponse{Edge: edge, State: TransformState(state)})
}

func (h *APIHandlers) Disconnect(c fiber.Ctx) error {
	return h.stateResult(c, func() (editor.State, error) {
		return h.nodeService.Disconnect(c.Context(), c.Params("id"))
	})
}

func (h *APIHandlers) SelectNode(c fiber.Ctx) error {
	var req SelectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	return h.stateResult(c, func() (editor.State, error) {
		return h.nodeService.SelectNode(c.Context(), req.NodeID)
	})
}

func (h *APIHandlers) Validate(c fiber.Ctx) error {
	return h.stateResult(c, func() (editor.State, error) {
		return h.workflowService.Validate(c.Context())
	})
}

func (h *APIHandlers) Reset(c fiber.Ctx) error {
	return h.stateResult(c, func() (editor.State, error) {
		return h.workflowService.Reset(c.Context())
	})
}

func (h *APIHandlers) Save(c fiber.Ctx) error {
	var req SaveRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	workflow, state, err := h.workflowService.Save(c.Context(), req.Name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(SaveResponse{Workflow: workflow, State: TransformState(state)})
}

func (h *APIHandlers) Export(c fiber.Ctx) error {
	payload, err := h.publishingService.ExportJSON(c.Context(), c.Query("name"))
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(payload)
}

func (h *APIHandlers) Import(c fiber.Ctx) error {
	return h.stateResult(c, func() (editor.State, error) {
		return h.publishingService.Import(c.Context(), c.Body())
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	req, err := h.parseListWorkflowsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.workflowService.ListWorkflows(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	summaries := make([]WorkflowSummary, 0, len(result.Workflows))
	for _, workflow := range result.Workflows {
		summaries = append(summaries, TransformWorkflowSummary(workflow))
	}

	return c.JSON(fiber.Map{
		"workflows":     summaries,
		"total_count":   result.TotalCount,
		"has_next_page": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

// parseListWorkflowsRequest parses query parameters for listing workflows.
func (h *APIHandlers) parseListWorkflowsRequest(c fiber.Ctx) (*services.ListWorkflowsRequest, error) {
	req := &services.ListWorkflowsRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	req.Name = c.Query("name")
	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	workflow, err := h.workflowService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) ReloadWorkflows(c fiber.Ctx) error {
	return h.stateResult(c, func() (editor.State, error) {
		return h.workflowService.Reload(c.Context())
	})
}

func (h *APIHandlers) OpenWorkflow(c fiber.Ctx) error {
	return h.stateResult(c, func() (editor.State, error) {
		return h.workflowService.Open(c.Context(), c.Params("id"))
	})
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	_, err := h.workflowService.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowbuilder API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Flowbuilder API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// stateResult renders the state returned by op, or its error as a problem document.
func (h *APIHandlers) stateResult(c fiber.Ctx, op func() (editor.State, error)) error {
	state, err := op()
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformState(state))
}
