package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ilcs-ai/contract-ai/internal/application"
	apprisk "github.com/ilcs-ai/contract-ai/internal/application/risk"
	"github.com/ilcs-ai/contract-ai/internal/application/salience"
	domain "github.com/ilcs-ai/contract-ai/internal/domain/analysis"
	domrisk "github.com/ilcs-ai/contract-ai/internal/domain/risk"
)

const previewLength = 500

// Service implements use-cases untuk analisis dokumen kontrak.
// Semua dependency di-inject sekali saat startup; aman dipakai concurrent.
type Service struct {
	Extractor  domain.TextExtractor
	Structurer domain.FieldStructurer
	Risk       *apprisk.Service
	Audit      domain.AuditStore // optional
	Repo       domain.Repository // optional
	Clock      application.Clock
	Logger     *slog.Logger

	// SalienceBudget target karakter sebelum teks dikirim ke LLM
	SalienceBudget int
	// AlwaysBackupOCR jalankan OCR cadangan walau ekstraksi langsung sukses
	AlwaysBackupOCR bool
}

// ExtractResult respons endpoint ekstraksi-saja
type ExtractResult struct {
	ID             domain.AnalysisID `json:"id"`
	Filename       string            `json:"filename"`
	Success        bool              `json:"success"`
	ExtractedText  string            `json:"extracted_text,omitempty"`
	Method         domain.Method     `json:"extraction_method,omitempty"`
	TextLength     int               `json:"text_length"`
	Pages          int               `json:"pages,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
	ErrorMessage   string            `json:"error_message,omitempty"`
	ProcessingTime float64           `json:"processing_time"`
}

// RiskResult envelope hasil analisis risiko satu kontrak
type RiskResult struct {
	domrisk.Analysis
	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
	ProcessingTime    float64   `json:"processing_time"`
}

// BatchResult envelope hasil analisis batch
type BatchResult struct {
	Success           bool             `json:"success"`
	RiskSummary       *domrisk.Summary `json:"risk_summary,omitempty"`
	ErrorMessage      string           `json:"error_message,omitempty"`
	AnalysisTimestamp time.Time        `json:"analysis_timestamp"`
	ProcessingTime    float64          `json:"processing_time"`
}

func (s *Service) budget() int {
	if s.SalienceBudget > 0 {
		return s.SalienceBudget
	}
	return salience.DefaultBudget
}

// Extract jalur OCR/ekstraksi saja, tanpa structuring maupun risiko.
// Error hanya untuk kegagalan validasi input (tipe file tidak didukung);
// kegagalan ekstraksi lain dikembalikan sebagai Success=false.
func (s *Service) Extract(ctx context.Context, doc domain.Document) (ExtractResult, error) {
	start := s.Clock.Now()
	id := domain.AnalysisID(uuid.New().String())

	extracted, err := s.Extractor.Extract(ctx, doc)
	if err != nil {
		var ufe *domain.UnsupportedFileTypeError
		if errors.As(err, &ufe) {
			return ExtractResult{}, err
		}
		res := ExtractResult{
			ID:             id,
			Filename:       doc.Filename,
			Success:        false,
			ErrorMessage:   fmt.Sprintf("text extraction failed: %v", err),
			ProcessingTime: s.elapsed(start),
		}
		s.persist(ctx, recordFrom(id, doc.Filename, domain.KindExtract, extracted.Method, "", 0, res.Success, res.ErrorMessage, 0, start, s.Clock.Now()))
		return res, nil
	}

	s.auditOCR(doc, extracted)

	res := ExtractResult{
		ID:             id,
		Filename:       doc.Filename,
		Success:        true,
		ExtractedText:  extracted.Text,
		Method:         extracted.Method,
		TextLength:     extracted.Length,
		Pages:          extracted.Pages,
		Warnings:       extracted.Warnings,
		ProcessingTime: s.elapsed(start),
	}
	s.persist(ctx, recordFrom(id, doc.Filename, domain.KindExtract, extracted.Method, "", 0, true, "", extracted.Length, start, s.Clock.Now()))
	return res, nil
}

// AnalyzeContract pipeline penuh: ekstraksi → pemangkasan salience →
// structuring via LLM → (opsional) analisis risiko → perakitan hasil.
func (s *Service) AnalyzeContract(ctx context.Context, doc domain.Document, withRisk bool) (domain.AnalysisResult, error) {
	start := s.Clock.Now()
	id := domain.AnalysisID(uuid.New().String())

	result := domain.AnalysisResult{
		ID:             id,
		Filename:       doc.Filename,
		AnalysisMethod: "groq_ai",
		AnalyzedAt:     start,
	}

	extracted, err := s.Extractor.Extract(ctx, doc)
	if err != nil {
		var ufe *domain.UnsupportedFileTypeError
		if errors.As(err, &ufe) {
			return domain.AnalysisResult{}, err
		}
		return s.finishDetail(ctx, result, extracted, start, fmt.Sprintf("text extraction failed: %v", err))
	}
	if len(strings.TrimSpace(extracted.Text)) < domain.MinTextLength {
		return s.finishDetail(ctx, result, extracted, start, "could not extract sufficient text from file for analysis")
	}

	s.auditOCR(doc, extracted)

	result.Method = extracted.Method
	result.TextLength = extracted.Length
	result.ExtractedText = preview(extracted.Text)

	trimmed := salience.Extract(extracted.Text, s.budget())
	if len(trimmed) < len(extracted.Text) {
		s.Logger.Info("document trimmed for structuring",
			"filename", doc.Filename, "original_len", len(extracted.Text), "trimmed_len", len(trimmed))
	}

	structured, err := s.Structurer.Structure(ctx, trimmed)
	if err != nil {
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return s.finishDetail(ctx, result, extracted, start, "structuring service not available")
		}
		return s.finishDetail(ctx, result, extracted, start, fmt.Sprintf("contract analysis failed: %v", err))
	}

	result.Success = true
	result.ContractDetails = structured.Details
	result.RawAnalysis = structured.RawAnalysis
	result.ConfidenceScore = structured.Confidence

	// analisis risiko jalan di teks mentah penuh, independen dari structuring;
	// kegagalannya tidak membatalkan hasil structuring
	if withRisk && s.Risk != nil {
		riskResult := s.Risk.Analyze(ctx, extracted.Text)
		result.Risk = &riskResult
	}

	result.ProcessingTime = s.elapsed(start)
	riskLevel := ""
	if result.Risk != nil {
		riskLevel = string(result.Risk.Level)
	}
	s.persist(ctx, recordFrom(id, doc.Filename, domain.KindDetail, extracted.Method, riskLevel,
		result.ConfidenceScore, true, "", extracted.Length, start, s.Clock.Now()))
	return result, nil
}

// RiskFromText analisis risiko dari teks langsung
func (s *Service) RiskFromText(ctx context.Context, contractText string) (RiskResult, error) {
	if len(strings.TrimSpace(contractText)) < domain.MinTextLength {
		return RiskResult{}, domain.ErrTextTooShort
	}
	start := s.Clock.Now()
	analysis := s.Risk.Analyze(ctx, contractText)
	res := RiskResult{
		Analysis:          analysis,
		AnalysisTimestamp: s.Clock.Now(),
		ProcessingTime:    s.elapsed(start),
	}
	s.persist(ctx, recordFrom(domain.AnalysisID(uuid.New().String()), "", domain.KindRisk, "",
		string(analysis.Level), analysis.Confidence, analysis.Success, analysis.ErrorMessage,
		len(contractText), start, s.Clock.Now()))
	return res, nil
}

// RiskFromFile ekstraksi teks lalu analisis risiko
func (s *Service) RiskFromFile(ctx context.Context, doc domain.Document) (RiskResult, error) {
	start := s.Clock.Now()

	extracted, err := s.Extractor.Extract(ctx, doc)
	if err != nil {
		var ufe *domain.UnsupportedFileTypeError
		if errors.As(err, &ufe) {
			return RiskResult{}, err
		}
		analysis := domrisk.Analysis{
			Success:      false,
			Level:        domrisk.LevelUnknown,
			Factors:      []domrisk.Factor{},
			ErrorMessage: fmt.Sprintf("text extraction failed: %v", err),
		}
		return RiskResult{Analysis: analysis, AnalysisTimestamp: s.Clock.Now(), ProcessingTime: s.elapsed(start)}, nil
	}
	if len(strings.TrimSpace(extracted.Text)) < domain.MinTextLength {
		return RiskResult{}, domain.ErrTextTooShort
	}

	s.auditOCR(doc, extracted)

	analysis := s.Risk.Analyze(ctx, extracted.Text)
	res := RiskResult{
		Analysis:          analysis,
		AnalysisTimestamp: s.Clock.Now(),
		ProcessingTime:    s.elapsed(start),
	}
	s.persist(ctx, recordFrom(domain.AnalysisID(uuid.New().String()), doc.Filename, domain.KindRisk,
		extracted.Method, string(analysis.Level), analysis.Confidence, analysis.Success,
		analysis.ErrorMessage, extracted.Length, start, s.Clock.Now()))
	return res, nil
}

// RiskBatch analisis banyak kontrak; item pendek dilewati, bukan fatal
func (s *Service) RiskBatch(ctx context.Context, texts []string) (BatchResult, error) {
	if len(texts) == 0 {
		return BatchResult{}, domain.ErrEmptyBatch
	}
	start := s.Clock.Now()

	summary, analyzed := s.Risk.AnalyzeBatch(ctx, texts, domain.MinTextLength)
	if analyzed == 0 {
		return BatchResult{}, domain.ErrEmptyBatch
	}

	return BatchResult{
		Success:           true,
		RiskSummary:       &summary,
		AnalysisTimestamp: s.Clock.Now(),
		ProcessingTime:    s.elapsed(start),
	}, nil
}

// History passthrough ke repo; repo optional
func (s *Service) History(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	if s.Repo == nil {
		return domain.PaginatedResult{}, domain.ErrServiceUnavailable
	}
	return s.Repo.Paginate(ctx, page, pageSize)
}

func (s *Service) HistoryGet(ctx context.Context, id domain.AnalysisID) (*domain.Record, error) {
	if s.Repo == nil {
		return nil, domain.ErrServiceUnavailable
	}
	return s.Repo.Get(ctx, id)
}

// HistoryLatest ambil N analisis terakhir
func (s *Service) HistoryLatest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if s.Repo == nil {
		return nil, domain.ErrServiceUnavailable
	}
	return s.Repo.Latest(ctx, limit)
}

func (s *Service) finishDetail(ctx context.Context, result domain.AnalysisResult, extracted domain.ExtractedText, start time.Time, msg string) (domain.AnalysisResult, error) {
	result.Success = false
	result.ErrorMessage = msg
	result.Method = extracted.Method
	result.TextLength = extracted.Length
	result.ExtractedText = preview(extracted.Text)
	result.ProcessingTime = s.elapsed(start)
	s.persist(ctx, recordFrom(result.ID, result.Filename, domain.KindDetail, extracted.Method, "",
		0, false, msg, extracted.Length, start, s.Clock.Now()))
	return result, nil
}

// auditOCR simpan salinan hasil OCR ke audit store; kalau ekstraksi langsung
// yang dipakai dan backup diaktifkan, jalankan OCR cadangan di background
// supaya request tidak ikut menanggung biayanya.
func (s *Service) auditOCR(doc domain.Document, extracted domain.ExtractedText) {
	if s.Audit == nil {
		return
	}
	switch extracted.Method {
	case domain.MethodPDFOCR, domain.MethodImageOCR:
		go s.putAudit(doc.Filename, extracted.Text)
	case domain.MethodPDFText:
		if s.AlwaysBackupOCR {
			go func() {
				backup, err := s.Extractor.OCR(context.Background(), doc)
				if err != nil {
					s.Logger.Warn("ocr backup failed", "filename", doc.Filename, "error", err)
					return
				}
				s.putAudit(doc.Filename, backup.Text)
			}()
		}
	}
}

func (s *Service) putAudit(filename, text string) {
	key := fmt.Sprintf("ocr/%s-%s.txt", time.Now().UTC().Format("20060102"), uuid.New().String())
	url, err := s.Audit.PutText(context.Background(), key, text)
	if err != nil {
		s.Logger.Warn("ocr audit upload failed", "filename", filename, "error", err)
		return
	}
	s.Logger.Info("ocr audit stored", "filename", filename, "url", url)
}

func (s *Service) persist(ctx context.Context, rec *domain.Record) {
	if s.Repo == nil {
		return
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		s.Logger.Warn("history save failed", "id", rec.ID, "error", err)
	}
}

func (s *Service) elapsed(start time.Time) float64 {
	return s.Clock.Now().Sub(start).Seconds()
}

func recordFrom(id domain.AnalysisID, filename string, kind domain.Kind, method domain.Method,
	riskLevel string, confidence float64, success bool, errMsg string, textLen int,
	start, end time.Time) *domain.Record {
	return &domain.Record{
		ID:           id,
		Filename:     filename,
		Kind:         kind,
		Method:       method,
		RiskLevel:    riskLevel,
		Confidence:   confidence,
		Success:      success,
		ErrorMessage: errMsg,
		TextLength:   textLen,
		DurationMS:   end.Sub(start).Milliseconds(),
		CreatedAt:    start,
	}
}

func preview(text string) string {
	if len(text) <= previewLength {
		return text
	}
	return text[:previewLength] + "..."
}
