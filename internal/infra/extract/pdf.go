package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	domain "github.com/ilcs-ai/contract-ai/internal/domain/analysis"
)

func pageMarker(n int) string { return fmt.Sprintf("--- Page %d ---", n) }

// pdfToText ekstraksi text layer via pdftotext; \f adalah pemisah halaman
func (e *Extractor) pdfToText(ctx context.Context, path string) (domain.ExtractedText, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("pdftotext: %w (%s)", err, strings.TrimSpace(string(errb)))
	}

	pages := strings.Split(string(out), "\f")
	var b strings.Builder
	kept := 0
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pageMarker(i + 1))
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(page))
		kept++
	}

	text := b.String()
	return domain.ExtractedText{
		Text:   text,
		Method: domain.MethodPDFText,
		Length: len(text),
		Pages:  kept,
	}, nil
}

// pdfToOCR rasterisasi tiap halaman lalu OCR per halaman.
// Halaman yang gagal ditandai sebagai warning, halaman lain tetap lanjut.
func (e *Extractor) pdfToOCR(ctx context.Context, path string) (domain.ExtractedText, error) {
	tmpDir, err := os.MkdirTemp("", "contract-pp-*")
	if err != nil {
		return domain.ExtractedText{}, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("pdftoppm: %w (%s)", err, strings.TrimSpace(string(errb)))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return domain.ExtractedText{}, fmt.Errorf("pdftoppm produced no page images")
	}

	var b strings.Builder
	var warns []string
	for i, img := range matches {
		txt, err := e.tesseract(ctx, img)
		if err != nil {
			warns = append(warns, fmt.Sprintf("page %d: %v", i+1, err))
			continue
		}
		if strings.TrimSpace(txt) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pageMarker(i + 1))
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(txt))
	}

	text := b.String()
	return domain.ExtractedText{
		Text:     text,
		Method:   domain.MethodPDFOCR,
		Length:   len(text),
		Pages:    len(matches),
		Warnings: warns,
	}, nil
}
