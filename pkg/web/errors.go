package web

import (
	"errors"

	"github.com/dukex/flowbuilder/pkg/models"
	"github.com/dukex/flowbuilder/pkg/services"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

// RejectedProblem is the problem document of an edit refused by the graph rules.
type RejectedProblem struct {
	*problems.Problem

	Issues models.Issues `json:"issues"`
}

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, kind, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType(kind).
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

func rejected(c fiber.Ctx, err *services.RejectedError) error {
	problem := problems.NewStatusProblem(422).
		WithInstance(c.Path()).
		WithType("edit_rejected").
		WithDetail(err.Error())

	return c.Status(fiber.StatusUnprocessableEntity).JSON(RejectedProblem{
		Problem: problem,
		Issues:  err.Issues,
	})
}

// handleServiceError provides typed error handling for service layer errors.
func handleServiceError(c fiber.Ctx, err error) error {
	if rejectedErr, ok := services.IsRejectedError(err); ok {
		return rejected(c, rejectedErr)
	}

	switch {
	case services.IsValidationError(err):
		return badRequest(c, err.Error())

	case errors.Is(err, services.ErrWorkflowNotFound):
		return notFound(c, "workflow_not_found", "workflow not found")

	case errors.Is(err, services.ErrNodeNotFound):
		return notFound(c, "node_not_found", "node not found")

	case errors.Is(err, services.ErrEdgeNotFound):
		return notFound(c, "edge_not_found", "edge not found")

	case services.IsConflictError(err):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("conflict").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	case services.IsUnavailableError(err):
		problem := problems.NewStatusProblem(503).
			WithInstance(c.Path()).
			WithType("catalog_unavailable").
			WithDetail(err.Error())

		return c.Status(fiber.StatusServiceUnavailable).JSON(problem)

	default:
		return internalError(c, err)
	}
}
