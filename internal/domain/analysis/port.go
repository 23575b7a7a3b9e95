package analysis

import "context"

// TextExtractor port: dokumen → teks + metode ekstraksi.
// Implementasi memanggil pdftotext / tesseract di luar proses.
type TextExtractor interface {
	Extract(ctx context.Context, doc Document) (ExtractedText, error)
	// OCR paksa jalur OCR, dipakai untuk backup audit walau ekstraksi
	// langsung sudah berhasil.
	OCR(ctx context.Context, doc Document) (ExtractedText, error)
}

// FieldStructurer port: teks (sudah dipangkas) → field kontrak terstruktur.
// Confidence pada hasil adalah konstanta per jalur kode, bukan skor model.
type FieldStructurer interface {
	Structure(ctx context.Context, text string) (StructureResult, error)
}

// AuditStore port: simpan salinan teks OCR untuk audit
type AuditStore interface {
	PutText(ctx context.Context, key, text string) (string, error)
}

// Repository port untuk history analisis
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id AnalysisID) (*Record, error)
	Latest(ctx context.Context, limit int) ([]*Record, error)
	Paginate(ctx context.Context, page, pageSize int) (PaginatedResult, error)
}
