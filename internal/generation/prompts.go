package generation

import (
	"fmt"
	"strings"
)

const draftSchemaHint = `Respond with a single JSON object using exactly these keys:
{"title": string, "content": string, "excerpt": string}
The content field holds the full article body as plain paragraphs separated by blank lines. The excerpt is one or two sentences.`

const postDraftSystem = `You are a communications writer for a municipal government website. You turn source documents into clear, factual news posts for residents. Write in plain language at a general reading level. Never invent facts that are not in the source material. ` + draftSchemaHint

const eventDraftSystem = `You are a communications writer for a municipal government website. You turn source documents into event announcements for residents. Lead with what, when, and where. Keep the tone inviting but factual, and never invent details that are not in the source material. ` + draftSchemaHint

const newsletterDraftSystem = `You are a communications writer for a municipal government website. You turn source documents into newsletter sections for residents. Summarize the key points in a warm, direct voice suitable for an email digest. Never invent facts that are not in the source material. ` + draftSchemaHint

const polishSystem = `You are an editor for a municipal government website. You receive a drafted article as JSON and return an improved version with the same JSON shape:
{"title": string, "content": string, "excerpt": string}
Tighten the prose, fix grammar, and improve flow. Preserve every fact exactly; do not add or remove information.`

// draftSystemPrompt returns the system prompt for the draft stage. The switch
// is exhaustive over the closed request type set.
func draftSystemPrompt(requestType RequestType) (string, error) {
	switch requestType {
	case RequestPost:
		return postDraftSystem, nil
	case RequestEvent:
		return eventDraftSystem, nil
	case RequestNewsletter:
		return newsletterDraftSystem, nil
	default:
		return "", fmt.Errorf("unknown request type %q", requestType)
	}
}

func draftUserPrompt(input Input, text string) string {
	var builder strings.Builder
	if category := strings.TrimSpace(input.Category); category != "" {
		builder.WriteString("Category: ")
		builder.WriteString(category)
		builder.WriteString("\n\n")
	}
	builder.WriteString("Source document:\n\n")
	builder.WriteString(text)
	return builder.String()
}

func polishUserPrompt(draft Draft) string {
	var builder strings.Builder
	builder.WriteString("Draft to edit:\n\n")
	builder.WriteString(`{"title": `)
	builder.WriteString(quoteJSON(draft.Title))
	builder.WriteString(`, "content": `)
	builder.WriteString(quoteJSON(draft.Content))
	builder.WriteString(`, "excerpt": `)
	builder.WriteString(quoteJSON(draft.Excerpt))
	builder.WriteString("}")
	return builder.String()
}
