package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// GeminiProvider implements LLMProvider for Google Gemini. The system
// prompt travels as a systemInstruction config field and tool use is
// carried as functionCall/functionResponse parts inside contents.
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{client: client}, nil
}

// Provider returns the provider name.
func (p *GeminiProvider) Provider() string {
	return "gemini"
}

// Call makes an API call to Google Gemini.
func (p *GeminiProvider) Call(ctx context.Context, request Request) (*Response, error) {
	contents := []*genai.Content{}

	// Gemini keys function responses by call name, not id; remember the
	// name each id belongs to while walking the history.
	callNames := map[string]string{}

	for _, msg := range request.Messages {
		switch msg.Role {
		case "system":
			continue // Carried in SystemInstruction below

		case "user":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))

		case "assistant":
			parts := []*genai.Part{}
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				callNames[tc.ID] = tc.Name
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   tc.ID,
						Name: tc.Name,
						Args: tc.Input,
					},
				})
			}
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: parts,
			})

		case "tool":
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       msg.ToolCallID,
						Name:     callNames[msg.ToolCallID],
						Response: map[string]interface{}{"result": msg.Content},
					},
				}},
			})
		}
	}

	config := &genai.GenerateContentConfig{}

	if request.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: request.SystemPrompt}},
		}
	}

	if request.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(request.Temperature))
	}

	if request.MaxTokens > 0 {
		config.MaxOutputTokens = int32(request.MaxTokens)
	}

	if len(request.Tools) > 0 {
		declarations := []*genai.FunctionDeclaration{}
		for _, spec := range request.Tools {
			declarations = append(declarations, &genai.FunctionDeclaration{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  toGeminiSchema(spec.InputSchema),
			})
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	}

	response, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	if err != nil {
		return nil, err
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates returned")
	}

	content := ""
	toolCalls := []ToolCall{}

	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			content += part.Text
		}
		if part.FunctionCall != nil {
			id := part.FunctionCall.ID
			if id == "" {
				id = uuid.NewString()
			}
			toolCalls = append(toolCalls, ToolCall{
				ID:    id,
				Name:  part.FunctionCall.Name,
				Input: part.FunctionCall.Args,
			})
		}
	}

	usage := &TokenUsage{}
	if response.UsageMetadata != nil {
		usage.InputTokens = int(response.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(response.UsageMetadata.CandidatesTokenCount)
	}

	return &Response{
		Content:   content,
		ToolCalls: toolCalls,
		Usage:     usage,
	}, nil
}

// toGeminiSchema converts a JSON Schema object into the typed schema
// the Gemini API expects.
func toGeminiSchema(schema map[string]interface{}) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{}

	if t, ok := schema["type"].(string); ok {
		switch t {
		case "object":
			out.Type = genai.TypeObject
		case "array":
			out.Type = genai.TypeArray
		case "string":
			out.Type = genai.TypeString
		case "integer":
			out.Type = genai.TypeInteger
		case "number":
			out.Type = genai.TypeNumber
		case "boolean":
			out.Type = genai.TypeBoolean
		}
	}

	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}

	switch enum := schema["enum"].(type) {
	case []string:
		out.Enum = enum
	case []interface{}:
		for _, v := range enum {
			if s, ok := v.(string); ok {
				out.Enum = append(out.Enum, s)
			}
		}
	}

	if props, ok := schema["properties"].(map[string]interface{}); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]interface{}); ok {
				out.Properties[name] = toGeminiSchema(sub)
			}
		}
	}

	if items, ok := schema["items"].(map[string]interface{}); ok {
		out.Items = toGeminiSchema(items)
	}

	out.Required = schemaRequired(schema)

	return out
}
