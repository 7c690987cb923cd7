package services

import (
	"context"

	"github.com/dukex/flowbuilder/pkg/document"
	"github.com/dukex/flowbuilder/pkg/editor"
	"github.com/dukex/flowbuilder/pkg/events"
	"github.com/dukex/flowbuilder/pkg/models"
)

// Publishing moves graphs in and out of the editor as export documents.
type Publishing struct {
	workspace *Workspace
	codec     *document.Codec
}

// NewPublishing creates a new publishing service.
func NewPublishing(workspace *Workspace, codec *document.Codec) *Publishing {
	return &Publishing{
		workspace: workspace,
		codec:     codec,
	}
}

// Export returns the export document of the graph, refused when the graph has blocking issues.
func (p *Publishing) Export(ctx context.Context, name string) (*models.ExportDocument, editor.State, error) {
	doc, state := p.workspace.export(ctx, name)
	if doc == nil {
		return nil, state, newRejectedError("Export", state.Issues)
	}

	return doc, state, nil
}

// ExportJSON is Export rendered as indented JSON.
func (p *Publishing) ExportJSON(ctx context.Context, name string) ([]byte, error) {
	doc, _, err := p.Export(ctx, name)
	if err != nil {
		return nil, err
	}

	return p.codec.Encode(doc)
}

// Import replaces the graph with the document in raw. The document is checked against the
// document schema first; graph issues of a well-formed document are reported in the state.
func (p *Publishing) Import(ctx context.Context, raw []byte) (editor.State, error) {
	var imported *models.ExportDocument

	_, after, err := p.workspace.apply(ctx, "import", func(editor.State) (editor.Action, error) {
		doc, err := p.codec.Decode(raw)
		if err != nil {
			return nil, NewValidationError("Import", "INVALID_DOCUMENT", err.Error(), err)
		}

		imported = doc

		return editor.ImportWorkflow{Document: *doc}, nil
	})
	if err != nil {
		return after, err
	}

	p.workspace.publish(ctx, imported.Name, events.WorkflowImported{
		BaseEvent: events.NewBaseEvent(events.WorkflowImportedEvent, ""),
		Name:      imported.Name,
		NodeCount: len(imported.Nodes),
		Issues:    len(after.Issues),
	})

	return after, nil
}
