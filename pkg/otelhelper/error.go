package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/flowbuilder/pkg/models"
)

func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(
		attrs...,
	))
}

// SetIssues records the issue count of an edit and marks the span as failed when one blocks.
func SetIssues(span trace.Span, issues models.Issues) {
	span.SetAttributes(attribute.Int(IssueCountKey, len(issues)))

	if issues.HasBlocking() {
		span.SetStatus(codes.Error, "edit produced blocking issues")
		span.AddEvent("issues_reported", trace.WithAttributes(
			attribute.StringSlice("messages", issues.Messages()),
		))
	}
}
