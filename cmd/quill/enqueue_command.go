package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"quill/internal/api"
	"quill/internal/generation"
)

func newEnqueueCommand(ctx *commandContext) *cobra.Command {
	var requestType string
	var sourceFile string
	var mediaType string
	var category string
	var requestedBy string

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Queue a document for content generation",
		Long:  "Queue a document for content generation. The document is read from --file, or from stdin when no file is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := readDocument(cmd.InOrStdin(), sourceFile)
			if err != nil {
				return err
			}
			resolvedMedia := resolveMediaType(mediaType, sourceFile)

			return ctx.withClient(func(client *api.Client) error {
				item, err := client.Enqueue(cmd.Context(), api.EnqueueRequest{
					RequestType: requestType,
					Input: generation.Input{
						DocumentText: document,
						MediaType:    resolvedMedia,
						Category:     category,
					},
					RequestedBy: requestedBy,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %s request %s\n", item.RequestType, item.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&requestType, "type", "t", string(generation.RequestPost),
		fmt.Sprintf("Request type (%s)", requestTypeList()))
	cmd.Flags().StringVarP(&sourceFile, "file", "f", "", "Path to the source document")
	cmd.Flags().StringVarP(&mediaType, "media-type", "m", "", "Media type of the document (inferred from the file extension when omitted)")
	cmd.Flags().StringVar(&category, "category", "", "CMS category hint for the generated draft")
	cmd.Flags().StringVar(&requestedBy, "requested-by", "", "Identity to record as the requester")

	return cmd
}

func readDocument(stdin io.Reader, sourceFile string) (string, error) {
	if trimmed := strings.TrimSpace(sourceFile); trimmed != "" {
		data, err := os.ReadFile(trimmed)
		if err != nil {
			return "", fmt.Errorf("read source document: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read document from stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no document provided; pass --file or pipe content on stdin")
	}
	return string(data), nil
}

func resolveMediaType(explicit, sourceFile string) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	switch strings.ToLower(filepath.Ext(sourceFile)) {
	case ".md", ".markdown":
		return generation.MediaTypeMarkdown
	case ".html", ".htm":
		return generation.MediaTypeHTML
	default:
		return generation.MediaTypePlain
	}
}

func requestTypeList() string {
	types := generation.RequestTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
