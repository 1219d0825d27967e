package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quill/internal/services"
)

func runParse(t *testing.T, input Input) (*Context, error) {
	t.Helper()
	pc := &Context{ItemID: "item-1", RequestType: RequestPost, Input: input}
	err := NewParser().Run(context.Background(), pc)
	return pc, err
}

func TestParserPlainTextPassesThrough(t *testing.T) {
	pc, err := runParse(t, Input{DocumentText: "  Road closure on Main St.  \n\nStarts Monday.  ", MediaType: "text/plain"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "Road closure on Main St.\nStarts Monday."
	if pc.Text != want {
		t.Fatalf("text = %q, want %q", pc.Text, want)
	}
}

func TestParserHTMLExtractsTextAndSkipsScripts(t *testing.T) {
	source := `<html><head><title>ignored</title></head><body>
<h1>Budget Hearing</h1>
<script>alert("nope")</script>
<p>The council meets <b>Tuesday</b> at 7pm.</p>
<style>p { color: red }</style>
</body></html>`
	pc, err := runParse(t, Input{DocumentText: source, MediaType: "text/html"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(pc.Text, "Budget Hearing") {
		t.Errorf("text missing heading: %q", pc.Text)
	}
	if !strings.Contains(pc.Text, "Tuesday") {
		t.Errorf("text missing body copy: %q", pc.Text)
	}
	if strings.Contains(pc.Text, "alert") || strings.Contains(pc.Text, "color") {
		t.Errorf("script/style content leaked into text: %q", pc.Text)
	}
}

func TestParserMarkdownStripsFormatting(t *testing.T) {
	source := "# Park Cleanup\n\nJoin us **Saturday** at [Riverside Park](https://example.org/park).\n\n`bring gloves`"
	pc, err := runParse(t, Input{DocumentText: source, MediaType: "text/markdown"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, forbidden := range []string{"#", "**", "](", "`"} {
		if strings.Contains(pc.Text, forbidden) {
			t.Errorf("markdown artifact %q left in text: %q", forbidden, pc.Text)
		}
	}
	if !strings.Contains(pc.Text, "Riverside Park") {
		t.Errorf("link text lost: %q", pc.Text)
	}
}

func TestParserMediaTypeWithParameters(t *testing.T) {
	if _, err := runParse(t, Input{DocumentText: "hello", MediaType: "text/plain; charset=utf-8"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestParserRejectsUnsupportedMediaType(t *testing.T) {
	_, err := runParse(t, Input{DocumentText: "%PDF-1.4", MediaType: "application/pdf"})
	if !errors.Is(err, services.ErrUnsupportedInput) {
		t.Fatalf("err = %v, want ErrUnsupportedInput", err)
	}
	if !strings.Contains(err.Error(), "application/pdf") {
		t.Errorf("error should name the rejected type: %v", err)
	}
}

func TestParserRejectsEmptyDocument(t *testing.T) {
	_, err := runParse(t, Input{DocumentText: "   \n\t  ", MediaType: "text/plain"})
	if !errors.Is(err, services.ErrUnsupportedInput) {
		t.Fatalf("err = %v, want ErrUnsupportedInput", err)
	}
}

func TestParseRequestType(t *testing.T) {
	for _, known := range RequestTypes() {
		got, ok := ParseRequestType(string(known))
		if !ok || got != known {
			t.Errorf("ParseRequestType(%q) = %q, %v", known, got, ok)
		}
	}
	if got, ok := ParseRequestType(" Generate-Post "); !ok || got != RequestPost {
		t.Errorf("ParseRequestType should normalize case and spacing, got %q, %v", got, ok)
	}
	if _, ok := ParseRequestType("generate-minutes"); ok {
		t.Error("unknown request type should not parse")
	}
}

func TestValidateInput(t *testing.T) {
	if err := ValidateInput(Input{DocumentText: "text", MediaType: "text/plain"}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if err := ValidateInput(Input{DocumentText: "text"}); err != nil {
		t.Fatalf("media type is optional, got %v", err)
	}
	if err := ValidateInput(Input{MediaType: "text/plain"}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("missing document text: err = %v, want ErrValidation", err)
	}
}

func TestNormalizeInputDefaultsMediaType(t *testing.T) {
	input := NormalizeInput(Input{DocumentText: "text", Category: " news "})
	if input.MediaType != MediaTypePlain {
		t.Errorf("media type = %q, want %q", input.MediaType, MediaTypePlain)
	}
	if input.Category != "news" {
		t.Errorf("category = %q, want trimmed", input.Category)
	}

	input = NormalizeInput(Input{DocumentText: "text", MediaType: " text/markdown "})
	if input.MediaType != MediaTypeMarkdown {
		t.Errorf("explicit media type should survive normalization: %q", input.MediaType)
	}
}
