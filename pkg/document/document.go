// Package document reads and writes the portable export form of a workflow graph.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/dukex/flowbuilder/pkg/models"
)

var ErrInvalidDocument = errors.New("invalid workflow document")

// Schema describes the export document. Node configs are checked per kind after decoding.
func Schema() map[string]any {
	kinds := make([]any, 0, len(models.NodeKinds))
	for _, kind := range models.NodeKinds {
		kinds = append(kinds, string(kind))
	}

	nonEmpty := map[string]any{"type": "string", "minLength": 1}

	return map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"nodes", "edges"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"nodes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "kind"},
					"properties": map[string]any{
						"id":    nonEmpty,
						"kind":  map[string]any{"type": "string", "enum": kinds},
						"label": map[string]any{"type": "string"},
						"position": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"x": map[string]any{"type": "number"},
								"y": map[string]any{"type": "number"},
							},
						},
						"config": map[string]any{"type": []any{"object", "null"}},
					},
				},
			},
			"edges": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "source", "target"},
					"properties": map[string]any{
						"id":     nonEmpty,
						"source": nonEmpty,
						"target": nonEmpty,
					},
				},
			},
		},
	}
}

// Codec decodes and encodes export documents.
type Codec struct {
	validate *validator.Validate
}

func NewCodec(validate *validator.Validate) *Codec {
	return &Codec{validate: validate}
}

// Decode checks raw against the document schema and decodes it. A blank name falls back to
// models.DefaultWorkflowName.
func (c *Codec) Decode(raw []byte) (*models.ExportDocument, error) {
	var data any

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	err := decoder.Decode(&data)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %w", ErrInvalidDocument, err)
	}

	err = validateJSONSchema(data, Schema())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var document models.ExportDocument

	err = json.Unmarshal(raw, &document)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if strings.TrimSpace(document.Name) == "" {
		document.Name = models.DefaultWorkflowName
	}

	if document.Edges == nil {
		document.Edges = []*models.Edge{}
	}

	for _, node := range document.Nodes {
		if node != nil && strings.TrimSpace(node.Label) == "" {
			node.Label = node.Kind.DefaultLabel()
		}
	}

	err = c.validate.Struct(document)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return &document, nil
}

// Encode renders a document as indented JSON.
func (c *Codec) Encode(document *models.ExportDocument) ([]byte, error) {
	return json.MarshalIndent(document, "", "  ")
}

func validateJSONSchema(data any, schema map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}

		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}
