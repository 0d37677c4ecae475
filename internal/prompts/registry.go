package prompts

import (
	"context"
	"fmt"

	domainErrors "github.com/lucasromero/github-review/internal/errors"
	"github.com/lucasromero/github-review/internal/i18n"
	"github.com/lucasromero/github-review/internal/logger"
	"github.com/lucasromero/github-review/internal/models"
	"github.com/lucasromero/github-review/internal/render"
)

// reviewService defines the aggregator methods the prompts need. Prompts go
// through the same aggregator path as tools and never call GitHub directly.
type reviewService interface {
	BuildBundle(ctx context.Context, ref models.PullRequestRef) (models.PullRequestBundle, error)
}

type (
	// Argument describes one named prompt argument.
	Argument struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Required    bool   `json:"required"`
	}

	// Info is the listable view of a prompt.
	Info struct {
		Name        string     `json:"name"`
		Description string     `json:"description"`
		Arguments   []Argument `json:"arguments"`
	}

	// Payload is the instruction produced by a prompt: static guidance text
	// followed by the rendered PR data it applies to.
	Payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Instruction string `json:"instruction"`
	}

	// Prompt is a named template combining fetched PR data with guidance
	// text for the invoking agent.
	Prompt struct {
		Name        string
		Description string
		Arguments   []Argument
		Handler     func(ctx context.Context, args map[string]interface{}) (Payload, error)
	}
)

const (
	PromptCodeReview  = "code-review"
	PromptSummarizePR = "summarize-pr"
)

// Registry holds the fixed set of prompt templates.
type Registry struct {
	prompts map[string]*Prompt
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{
		prompts: make(map[string]*Prompt),
	}
}

func (r *Registry) Register(prompt *Prompt) error {
	if _, exists := r.prompts[prompt.Name]; exists {
		return fmt.Errorf("prompt '%s' already registered", prompt.Name)
	}
	r.prompts[prompt.Name] = prompt
	r.order = append(r.order, prompt.Name)
	return nil
}

// List returns the registered prompts in registration order.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.prompts))
	for _, name := range r.order {
		p := r.prompts[name]
		infos = append(infos, Info{
			Name:        p.Name,
			Description: p.Description,
			Arguments:   p.Arguments,
		})
	}
	return infos
}

// Get resolves and executes the named prompt.
func (r *Registry) Get(ctx context.Context, name string, args map[string]interface{}) (Payload, error) {
	log := logger.FromContext(ctx)

	prompt, ok := r.prompts[name]
	if !ok {
		return Payload{}, domainErrors.NewAppError(domainErrors.KindInvalidInput, "unknown prompt", nil).
			WithContext("prompt", name)
	}

	log.Info("resolving prompt", "prompt", name)
	return prompt.Handler(ctx, args)
}

// NewDefaultRegistry registers the code-review and summarize-pr templates.
func NewDefaultRegistry(svc reviewService, renderer *render.Renderer, trans *i18n.Translations) (*Registry, error) {
	registry := NewRegistry()

	prArgument := []Argument{
		{
			Name:        "pr",
			Description: trans.GetMessage("tool.arg.pr.description", 0, nil),
			Required:    true,
		},
	}

	makeHandler := func(name string) func(ctx context.Context, args map[string]interface{}) (Payload, error) {
		return func(ctx context.Context, args map[string]interface{}) (Payload, error) {
			input, _ := args["pr"].(string)
			ref, err := models.ParseRef(input)
			if err != nil {
				return Payload{}, err
			}

			bundle, err := svc.BuildBundle(ctx, ref)
			if err != nil {
				return Payload{}, err
			}

			guidance := trans.GetMessage("prompt."+name+".guidance", 0, nil)
			return Payload{
				Name:        name,
				Description: trans.GetMessage("prompt."+name+".description", 0, nil),
				Instruction: guidance + "\n\n---\n\n" + renderer.Bundle(bundle),
			}, nil
		}
	}

	all := []*Prompt{
		{
			Name:        PromptCodeReview,
			Description: trans.GetMessage("prompt.code-review.description", 0, nil),
			Arguments:   prArgument,
			Handler:     makeHandler(PromptCodeReview),
		},
		{
			Name:        PromptSummarizePR,
			Description: trans.GetMessage("prompt.summarize-pr.description", 0, nil),
			Arguments:   prArgument,
			Handler:     makeHandler(PromptSummarizePR),
		},
	}

	for _, prompt := range all {
		if err := registry.Register(prompt); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
