package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	domain "github.com/ilcs-ai/contract-ai/internal/domain/analysis"
)

// Ambang teks langsung: di bawah ini PDF dianggap hasil scan dan jatuh ke OCR
const directTextThreshold = 100

type Config struct {
	Pdftotext string // nama/path binary; kosong -> "pdftotext"
	Pdftoppm  string // kosong -> "pdftoppm"
	Tesseract string // kosong -> "tesseract"

	Lang     string // bahasa OCR, default "eng+ind"
	DPI      int    // DPI rasterisasi PDF scan, default 300
	MaxPages int    // 0 = tanpa batas
}

// Extractor implements analysis.TextExtractor.
// Semua ekstraksi lewat binary eksternal via Runner.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng+ind"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".tiff": true, ".bmp": true,
}

// Extract pilih strategi berdasarkan ekstensi file.
// PDF: coba text layer dulu, jatuh ke OCR kalau hasilnya tipis atau error.
func (e *Extractor) Extract(ctx context.Context, doc domain.Document) (domain.ExtractedText, error) {
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	switch {
	case ext == ".pdf":
		return e.extractPDF(ctx, doc)
	case imageExts[ext]:
		return e.extractImage(ctx, doc)
	case ext == ".txt":
		return e.extractPlain(doc)
	default:
		return domain.ExtractedText{}, &domain.UnsupportedFileTypeError{Ext: ext}
	}
}

// OCR paksa jalur OCR tanpa mencoba text layer, dipakai untuk backup audit
func (e *Extractor) OCR(ctx context.Context, doc domain.Document) (domain.ExtractedText, error) {
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	switch {
	case ext == ".pdf":
		path, cleanup, err := e.writeTemp(doc)
		if err != nil {
			return domain.ExtractedText{}, err
		}
		defer cleanup()
		return e.pdfToOCR(ctx, path)
	case imageExts[ext]:
		return e.extractImage(ctx, doc)
	default:
		return domain.ExtractedText{}, &domain.UnsupportedFileTypeError{Ext: ext}
	}
}

func (e *Extractor) extractPDF(ctx context.Context, doc domain.Document) (domain.ExtractedText, error) {
	path, cleanup, err := e.writeTemp(doc)
	if err != nil {
		return domain.ExtractedText{}, err
	}
	defer cleanup()

	direct, derr := e.pdfToText(ctx, path)
	if derr == nil && len(strings.TrimSpace(direct.Text)) >= directTextThreshold {
		return direct, nil
	}
	if derr != nil {
		e.logger.Warn("pdf text layer extraction failed, falling back to ocr",
			"filename", doc.Filename, "error", derr)
	} else {
		e.logger.Info("pdf text layer too thin, falling back to ocr",
			"filename", doc.Filename, "chars", len(strings.TrimSpace(direct.Text)))
	}
	return e.pdfToOCR(ctx, path)
}

func (e *Extractor) extractPlain(doc domain.Document) (domain.ExtractedText, error) {
	if !utf8.Valid(doc.Content) {
		return domain.ExtractedText{}, fmt.Errorf("text file is not valid UTF-8")
	}
	text := string(doc.Content)
	return domain.ExtractedText{
		Text:   text,
		Method: domain.MethodPlain,
		Length: len(text),
		Pages:  1,
	}, nil
}

// writeTemp tulis isi dokumen ke file sementara karena binary eksternal
// hanya menerima path
func (e *Extractor) writeTemp(doc domain.Document) (string, func(), error) {
	f, err := os.CreateTemp("", "contract-*"+filepath.Ext(doc.Filename))
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := f.Write(doc.Content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	name := f.Name()
	return name, func() {
		if err := os.Remove(name); err != nil {
			e.logger.Warn("failed to remove temp file", "path", name, "error", err)
		}
	}, nil
}
