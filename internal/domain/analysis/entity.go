package analysis

import (
	"time"

	"github.com/ilcs-ai/contract-ai/internal/domain/risk"
)

// ID tipe untuk satu analisis
type AnalysisID string

// Kind enum: jenis analisis yang dijalankan
type Kind string

const (
	KindExtract Kind = "extract"
	KindDetail  Kind = "detail"
	KindRisk    Kind = "risk"
)

// Method label cara teks diekstrak dari dokumen
type Method string

const (
	MethodPDFText  Method = "pdf-text"
	MethodPDFOCR   Method = "pdf-ocr"
	MethodImageOCR Method = "image-ocr"
	MethodPlain    Method = "plain-text"
)

// Document dokumen mentah yang diupload, hidup hanya selama satu request
type Document struct {
	Filename string
	Content  []byte
}

// ExtractedText hasil ekstraksi teks dari dokumen
type ExtractedText struct {
	Text     string   `json:"text"`
	Method   Method   `json:"extraction_method"`
	Length   int      `json:"length"`
	Pages    int      `json:"pages,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ContractParty satu pihak dalam kontrak
type ContractParty struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Address string `json:"address,omitempty"`
}

// ContractDetails hasil ekstraksi field terstruktur.
// Semua field optional: null berarti tidak ditemukan di dokumen.
type ContractDetails struct {
	ContractName      string         `json:"contract_name,omitempty"`
	FirstParty        *ContractParty `json:"first_party,omitempty"`
	SecondParty       *ContractParty `json:"second_party,omitempty"`
	ContractStartDate string         `json:"contract_start_date,omitempty"`
	ContractEndDate   string         `json:"contract_end_date,omitempty"`
	ContractDuration  string         `json:"contract_duration,omitempty"`
	ContractValue     string         `json:"contract_value,omitempty"`
	ContractType      string         `json:"contract_type,omitempty"`
	KeyTerms          []string       `json:"key_terms,omitempty"`
}

// StructureResult hasil dari Structured-Field Requestor.
// Confidence adalah konstanta per jalur kode (0.9 parse sukses, 0.5 fallback
// raw text, 0.0 gagal total) — BUKAN probabilitas terkalibrasi dari model.
type StructureResult struct {
	Details     *ContractDetails `json:"contract_details,omitempty"`
	RawAnalysis string           `json:"raw_analysis,omitempty"`
	Confidence  float64          `json:"confidence_score"`
}

// AnalysisResult agregat respons untuk satu dokumen.
// Invariant: Success=false → ErrorMessage terisi, field lain best-effort.
type AnalysisResult struct {
	ID              AnalysisID       `json:"id"`
	Filename        string           `json:"filename,omitempty"`
	Success         bool             `json:"success"`
	ContractDetails *ContractDetails `json:"contract_details,omitempty"`
	RawAnalysis     string           `json:"raw_analysis,omitempty"`
	Risk            *risk.Analysis   `json:"risk,omitempty"`
	ExtractedText   string           `json:"extracted_text,omitempty"`
	Method          Method           `json:"extraction_method,omitempty"`
	TextLength      int              `json:"text_length"`
	ConfidenceScore float64          `json:"confidence_score"`
	AnalysisMethod  string           `json:"analysis_method,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	ProcessingTime  float64          `json:"processing_time"`
	AnalyzedAt      time.Time        `json:"analyzed_at"`
}

// Record ringkasan analisis yang dipersist ke history repo
type Record struct {
	ID           AnalysisID `json:"id"`
	Filename     string     `json:"filename,omitempty"`
	Kind         Kind       `json:"kind"`
	Method       Method     `json:"extraction_method,omitempty"`
	RiskLevel    string     `json:"risk_level,omitempty"`
	Confidence   float64    `json:"confidence"`
	Success      bool       `json:"success"`
	ErrorMessage string     `json:"error_message,omitempty"`
	TextLength   int        `json:"text_length"`
	DurationMS   int64      `json:"duration_ms"`
	CreatedAt    time.Time  `json:"created_at"`
}
