package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// chatEnvelopeSchema is the part of a chat-completions response we depend on.
var chatEnvelopeSchema = map[string]any{
	"type":     "object",
	"required": []string{"choices"},
	"properties": map[string]any{
		"choices": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []string{"message"},
				"properties": map[string]any{
					"message": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"content": map[string]any{"type": []string{"string", "null"}},
						},
					},
				},
			},
		},
	},
}

var (
	envelopeOnce   sync.Once
	envelopeSchema *jsonschema.Schema
	envelopeErr    error
)

// DecodeChatContent checks a chat-completions body and returns the first choice's content, trimmed.
func DecodeChatContent(raw []byte) (string, error) {
	envelopeOnce.Do(func() {
		envelopeSchema, envelopeErr = compile(chatEnvelopeSchema)
	})
	if envelopeErr != nil {
		return "", envelopeErr
	}
	if err := validate(envelopeSchema, raw); err != nil {
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content *string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if c := cc.Choices[0].Message.Content; c != nil {
		return strings.TrimSpace(*c), nil
	}
	return "", nil
}

func compile(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validate(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
