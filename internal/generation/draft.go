package generation

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"quill/internal/services"
	"quill/internal/services/llm"
)

// Completer is the slice of the LLM client the pipeline stages need.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// Draft is the intermediate article produced by the draft stage and refined
// by the polish stage.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
}

var titleCaser = cases.Title(language.AmericanEnglish, cases.NoLower)

// Drafter produces the first structured article from parsed text.
type Drafter struct {
	client Completer
}

// NewDrafter constructs the draft stage around an LLM client.
func NewDrafter(client Completer) *Drafter {
	return &Drafter{client: client}
}

func (d *Drafter) Name() string { return "draft" }

// Run asks the model for a structured draft and stores it on the pipeline
// context. An empty or undecodable response fails the item.
func (d *Drafter) Run(ctx context.Context, pc *Context) error {
	systemPrompt, err := draftSystemPrompt(pc.RequestType)
	if err != nil {
		return services.Wrap(services.ErrValidation, d.Name(), "select prompt", "", err)
	}

	raw, err := d.client.CompleteJSON(ctx, systemPrompt, draftUserPrompt(pc.Input, pc.Text))
	if err != nil {
		if llm.IsEmptyContent(err) {
			return services.Wrap(services.ErrEmptyOutput, d.Name(), "complete draft", "model returned no content", err)
		}
		return services.Wrap(services.ErrProvider, d.Name(), "complete draft", "", err)
	}

	draft, err := decodeDraft(raw)
	if err != nil {
		return services.Wrap(services.ErrProvider, d.Name(), "decode draft", "", err)
	}
	if strings.TrimSpace(draft.Content) == "" {
		return services.Wrap(services.ErrEmptyOutput, d.Name(), "decode draft", "draft content is empty", nil)
	}

	draft.Title = titleCaser.String(strings.TrimSpace(draft.Title))
	draft.Content = strings.TrimSpace(draft.Content)
	draft.Excerpt = strings.TrimSpace(draft.Excerpt)
	pc.Draft = draft
	pc.DraftModel = d.client.Model()
	return nil
}

func decodeDraft(raw string) (Draft, error) {
	var draft Draft
	if err := llm.DecodeJSON(raw, &draft); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

func quoteJSON(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(encoded)
}
