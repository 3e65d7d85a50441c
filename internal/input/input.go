// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package input loads analysis text from files, stdin, and PDFs, applying
// the pipeline's input cap.
package input

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Load reads analysis text from path. A "-" path reads stdin; a .pdf
// extension extracts the document text. The result is trimmed and capped
// at maxChars (zero means uncapped).
func Load(path string, maxChars int) (string, error) {
	var (
		text string
		err  error
	)
	switch {
	case path == "-":
		text, err = readAll(os.Stdin)
	case strings.HasSuffix(strings.ToLower(path), ".pdf"):
		text, err = FromPDF(path)
	default:
		text, err = fromFile(path)
	}
	if err != nil {
		return "", err
	}
	return Cap(text, maxChars), nil
}

// FromPDF extracts the plain text of a PDF document.
func FromPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}
	var b strings.Builder
	if _, err := io.Copy(&b, reader); err != nil {
		return "", fmt.Errorf("reading extracted text: %w", err)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%s: no extractable text", path)
	}
	return text, nil
}

func fromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Cap truncates text to at most maxChars bytes. Zero or negative maxChars
// leaves the text unchanged.
func Cap(text string, maxChars int) string {
	if maxChars > 0 && len(text) > maxChars {
		return text[:maxChars]
	}
	return text
}
