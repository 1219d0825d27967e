package generation

import (
	"context"
	"mime"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"quill/internal/services"
)

// Media types the parse stage accepts. Anything else fails the item.
const (
	MediaTypePlain    = "text/plain"
	MediaTypeMarkdown = "text/markdown"
	MediaTypeHTML     = "text/html"
)

var supportedMediaTypes = map[string]struct{}{
	MediaTypePlain:    {},
	MediaTypeMarkdown: {},
	MediaTypeHTML:     {},
}

// Parser extracts plain text from the uploaded source document.
type Parser struct{}

// NewParser constructs the parse stage.
func NewParser() *Parser { return &Parser{} }

// Name identifies the stage in logs and error messages.
func (p *Parser) Name() string { return "parse" }

// Run validates the input media type and fills the pipeline text.
func (p *Parser) Run(_ context.Context, pc *Context) error {
	mediaType := normalizeMediaType(pc.Input.MediaType)
	if _, ok := supportedMediaTypes[mediaType]; !ok {
		return services.Wrap(
			services.ErrUnsupportedInput, p.Name(), "validate media type",
			"unsupported media type "+pc.Input.MediaType, nil)
	}

	var text string
	switch mediaType {
	case MediaTypeHTML:
		text = extractHTMLText(pc.Input.DocumentText)
	case MediaTypeMarkdown:
		text = stripMarkdown(pc.Input.DocumentText)
	default:
		text = pc.Input.DocumentText
	}

	text = collapseWhitespace(text)
	if text == "" {
		return services.Wrap(
			services.ErrUnsupportedInput, p.Name(), "extract text",
			"document contains no extractable text", nil)
	}

	pc.Text = text
	return nil
}

func normalizeMediaType(value string) string {
	parsed, _, err := mime.ParseMediaType(strings.TrimSpace(value))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return parsed
}

var skipElements = map[string]struct{}{
	"script": {},
	"style":  {},
	"head":   {},
}

func extractHTMLText(source string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(source))
	var builder strings.Builder
	skipDepth := 0

	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			return builder.String()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if _, skip := skipElements[string(name)]; skip {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if _, skip := skipElements[string(name)]; skip && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if text := strings.TrimSpace(string(tokenizer.Text())); text != "" {
				builder.WriteString(text)
				builder.WriteByte('\n')
			}
		}
	}
}

var (
	markdownHeading  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	markdownEmphasis = regexp.MustCompile(`(\*{1,3}|_{1,3}|~~)`)
	markdownLink     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markdownImage    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	markdownCode     = regexp.MustCompile("(?s)```.*?```|`([^`]*)`")
)

func stripMarkdown(source string) string {
	text := markdownImage.ReplaceAllString(source, "")
	text = markdownLink.ReplaceAllString(text, "$1")
	text = markdownCode.ReplaceAllString(text, "$1")
	text = markdownHeading.ReplaceAllString(text, "")
	text = markdownEmphasis.ReplaceAllString(text, "")
	return text
}

func collapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, "\n")
}
