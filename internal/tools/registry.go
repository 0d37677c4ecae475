package tools

import (
	"context"
	"fmt"

	domainErrors "github.com/lucasromero/github-review/internal/errors"
	"github.com/lucasromero/github-review/internal/logger"
)

type (
	// Property describes one input field of a tool schema.
	Property struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	}

	// Schema is the declared input shape of a tool, serialized as a JSON
	// schema object in tool listings.
	Schema struct {
		Type       string              `json:"type"`
		Properties map[string]Property `json:"properties"`
		Required   []string            `json:"required"`
	}

	// Tool is a named, schema-validated operation exposed to the invoking
	// agent.
	Tool struct {
		Name        string
		Description string
		InputSchema Schema
		Handler     func(ctx context.Context, args map[string]interface{}) (string, error)
	}

	// Info is the listable view of a tool.
	Info struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		InputSchema Schema `json:"inputSchema"`
	}
)

// Registry holds the fixed set of tools and validates every invocation
// against the tool's declared schema before dispatch.
type Registry struct {
	tools map[string]*Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
	}
}

func (r *Registry) Register(tool *Tool) error {
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool '%s' already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

// List returns the registered tools in registration order.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.tools))
	for _, name := range r.order {
		tool := r.tools[name]
		infos = append(infos, Info{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	return infos
}

// Call validates args against the named tool's schema and dispatches.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	log := logger.FromContext(ctx)

	tool, ok := r.tools[name]
	if !ok {
		return "", domainErrors.NewAppError(domainErrors.KindInvalidInput, "unknown tool", nil).
			WithContext("tool", name)
	}

	if err := validateArgs(tool.InputSchema, args); err != nil {
		log.Warn("tool input rejected", "tool", name, "error", err)
		return "", err
	}

	log.Info("invoking tool", "tool", name)
	return tool.Handler(ctx, args)
}

func validateArgs(schema Schema, args map[string]interface{}) error {
	for _, required := range schema.Required {
		if _, ok := args[required]; !ok {
			return domainErrors.NewAppError(domainErrors.KindInvalidInput, "missing required argument", nil).
				WithContext("argument", required)
		}
	}

	for key, value := range args {
		prop, ok := schema.Properties[key]
		if !ok {
			return domainErrors.NewAppError(domainErrors.KindInvalidInput, "unexpected argument", nil).
				WithContext("argument", key)
		}
		if prop.Type == "string" {
			if _, ok := value.(string); !ok {
				return domainErrors.NewAppError(domainErrors.KindInvalidInput, "argument must be a string", nil).
					WithContext("argument", key)
			}
		}
	}

	return nil
}
