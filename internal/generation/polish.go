package generation

import (
	"context"
	"strings"

	"quill/internal/services"
	"quill/internal/services/llm"
)

// Polisher refines an existing draft. Its failures are recoverable: the
// pipeline falls back to the unpolished draft instead of failing the item.
type Polisher struct {
	client Completer
}

// NewPolisher constructs the polish stage around an LLM client.
func NewPolisher(client Completer) *Polisher {
	return &Polisher{client: client}
}

func (p *Polisher) Name() string { return "polish" }

// Run asks the model to edit the draft in place. The edited version replaces
// the draft only when it decodes cleanly and keeps a non-empty body.
func (p *Polisher) Run(ctx context.Context, pc *Context) error {
	raw, err := p.client.CompleteJSON(ctx, polishSystem, polishUserPrompt(pc.Draft))
	if err != nil {
		if llm.IsEmptyContent(err) {
			return services.Wrap(services.ErrEmptyOutput, p.Name(), "complete polish", "model returned no content", err)
		}
		return services.Wrap(services.ErrProvider, p.Name(), "complete polish", "", err)
	}

	polished, err := decodeDraft(raw)
	if err != nil {
		return services.Wrap(services.ErrProvider, p.Name(), "decode polish", "", err)
	}
	if strings.TrimSpace(polished.Content) == "" {
		return services.Wrap(services.ErrEmptyOutput, p.Name(), "decode polish", "polished content is empty", nil)
	}

	if strings.TrimSpace(polished.Title) == "" {
		polished.Title = pc.Draft.Title
	}
	if strings.TrimSpace(polished.Excerpt) == "" {
		polished.Excerpt = pc.Draft.Excerpt
	}

	polished.Title = titleCaser.String(strings.TrimSpace(polished.Title))
	polished.Content = strings.TrimSpace(polished.Content)
	polished.Excerpt = strings.TrimSpace(polished.Excerpt)
	pc.Draft = polished
	pc.Polished = true
	return nil
}
