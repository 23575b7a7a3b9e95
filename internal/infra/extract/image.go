package extract

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/ilcs-ai/contract-ai/internal/domain/analysis"
)

func (e *Extractor) extractImage(ctx context.Context, doc domain.Document) (domain.ExtractedText, error) {
	path, cleanup, err := e.writeTemp(doc)
	if err != nil {
		return domain.ExtractedText{}, err
	}
	defer cleanup()

	txt, err := e.tesseract(ctx, path)
	if err != nil {
		return domain.ExtractedText{}, err
	}

	text := cleanOCRText(txt)
	return domain.ExtractedText{
		Text:   text,
		Method: domain.MethodImageOCR,
		Length: len(text),
		Pages:  1,
	}, nil
}

// tesseract <file> stdout -l <lang>
func (e *Extractor) tesseract(ctx context.Context, path string) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.Lang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}

// cleanOCRText merapikan artefak OCR yang umum pada hasil scan
func cleanOCRText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	replacer := strings.NewReplacer(
		" .", ".",
		" ,", ",",
		" ;", ";",
		" :", ":",
	)
	return strings.TrimSpace(replacer.Replace(text))
}
