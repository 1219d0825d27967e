package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/internal/generation"
)

func TestReadDocumentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.txt")
	if err := os.WriteFile(path, []byte("road closure memo"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	document, err := readDocument(strings.NewReader("ignored stdin"), path)
	if err != nil {
		t.Fatalf("readDocument: %v", err)
	}
	if document != "road closure memo" {
		t.Errorf("document = %q", document)
	}
}

func TestReadDocumentFromStdin(t *testing.T) {
	document, err := readDocument(strings.NewReader("piped memo\n"), "")
	if err != nil {
		t.Fatalf("readDocument: %v", err)
	}
	if document != "piped memo\n" {
		t.Errorf("document = %q", document)
	}
}

func TestReadDocumentRejectsEmptyStdin(t *testing.T) {
	if _, err := readDocument(strings.NewReader("  \n"), ""); err == nil {
		t.Fatal("empty stdin should be rejected")
	}
}

func TestReadDocumentMissingFile(t *testing.T) {
	if _, err := readDocument(strings.NewReader(""), filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("missing file should be an error")
	}
}

func TestResolveMediaType(t *testing.T) {
	cases := []struct {
		name     string
		explicit string
		file     string
		want     string
	}{
		{"explicit wins", "text/html", "memo.md", "text/html"},
		{"markdown extension", "", "memo.md", generation.MediaTypeMarkdown},
		{"markdown long extension", "", "memo.markdown", generation.MediaTypeMarkdown},
		{"html extension", "", "page.html", generation.MediaTypeHTML},
		{"htm extension", "", "page.HTM", generation.MediaTypeHTML},
		{"unknown extension", "", "memo.txt", generation.MediaTypePlain},
		{"no file", "", "", generation.MediaTypePlain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveMediaType(tc.explicit, tc.file); got != tc.want {
				t.Errorf("resolveMediaType(%q, %q) = %q, want %q", tc.explicit, tc.file, got, tc.want)
			}
		})
	}
}

func TestRequestTypeListNamesEveryType(t *testing.T) {
	listed := requestTypeList()
	for _, known := range generation.RequestTypes() {
		if !strings.Contains(listed, string(known)) {
			t.Errorf("request type list missing %s: %q", known, listed)
		}
	}
}
