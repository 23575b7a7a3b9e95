package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apprisk "github.com/ilcs-ai/contract-ai/internal/application/risk"
	domain "github.com/ilcs-ai/contract-ai/internal/domain/analysis"
	domrisk "github.com/ilcs-ai/contract-ai/internal/domain/risk"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeExtractor struct {
	result    domain.ExtractedText
	ocrResult domain.ExtractedText
	err       error
}

func (f *fakeExtractor) Extract(ctx context.Context, doc domain.Document) (domain.ExtractedText, error) {
	if f.err != nil {
		return domain.ExtractedText{}, f.err
	}
	return f.result, nil
}

func (f *fakeExtractor) OCR(ctx context.Context, doc domain.Document) (domain.ExtractedText, error) {
	return f.ocrResult, nil
}

type fakeAudit struct {
	calls chan string
}

func newFakeAudit() *fakeAudit {
	return &fakeAudit{calls: make(chan string, 1)}
}

func (f *fakeAudit) PutText(ctx context.Context, key, text string) (string, error) {
	f.calls <- text
	return "http://minio.local/audit/" + key, nil
}

type fakeStructurer struct {
	result  domain.StructureResult
	err     error
	gotText string
}

func (f *fakeStructurer) Structure(ctx context.Context, text string) (domain.StructureResult, error) {
	f.gotText = text
	if f.err != nil {
		return domain.StructureResult{}, f.err
	}
	return f.result, nil
}

type fakeRepo struct {
	mu    sync.Mutex
	saved []*domain.Record
}

func (f *fakeRepo) Save(ctx context.Context, rec *domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, id domain.AnalysisID) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.saved {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRepo) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	return f.saved, nil
}

func (f *fakeRepo) Paginate(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	return domain.PaginatedResult{Data: f.saved, Page: page, PageSize: pageSize}, nil
}

type stubClassifier struct {
	level domrisk.Level
}

func (s stubClassifier) Classify(ctx context.Context, text string) (domrisk.Level, float64, error) {
	return s.level, 0.85, nil
}

func (s stubClassifier) Info(ctx context.Context) (domrisk.ModelInfo, error) {
	return domrisk.ModelInfo{}, nil
}

func (s stubClassifier) Available() bool { return true }

func newTestService(ext *fakeExtractor, str *fakeStructurer, repo *fakeRepo) *Service {
	return &Service{
		Extractor:  ext,
		Structurer: str,
		Risk:       apprisk.NewService(stubClassifier{level: domrisk.LevelMedium}, nil),
		Repo:       repo,
		Clock:      fixedClock{t: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)},
		Logger:     slog.Default(),
	}
}

func validExtracted() domain.ExtractedText {
	text := "Perjanjian kerjasama antara PT Alpha dan PT Beta dengan denda keterlambatan pembayaran."
	return domain.ExtractedText{
		Text:   text,
		Method: domain.MethodPDFText,
		Length: len(text),
		Pages:  1,
	}
}

func TestAnalyzeContractSuccess(t *testing.T) {
	ext := &fakeExtractor{result: validExtracted()}
	str := &fakeStructurer{result: domain.StructureResult{
		Details:    &domain.ContractDetails{ContractName: "Perjanjian Kerjasama"},
		Confidence: 0.9,
	}}
	repo := &fakeRepo{}
	svc := newTestService(ext, str, repo)

	result, err := svc.AnalyzeContract(context.Background(), domain.Document{Filename: "k.pdf"}, false)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Perjanjian Kerjasama", result.ContractDetails.ContractName)
	assert.Equal(t, 0.9, result.ConfidenceScore)
	assert.Equal(t, domain.MethodPDFText, result.Method)
	assert.Nil(t, result.Risk)
	assert.NotEmpty(t, result.ID)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, domain.KindDetail, repo.saved[0].Kind)
	assert.True(t, repo.saved[0].Success)
}

func TestAnalyzeContractWithRisk(t *testing.T) {
	ext := &fakeExtractor{result: validExtracted()}
	str := &fakeStructurer{result: domain.StructureResult{
		Details:    &domain.ContractDetails{},
		Confidence: 0.9,
	}}
	svc := newTestService(ext, str, &fakeRepo{})

	result, err := svc.AnalyzeContract(context.Background(), domain.Document{Filename: "k.pdf"}, true)

	require.NoError(t, err)
	require.NotNil(t, result.Risk)
	assert.True(t, result.Risk.Success)
	assert.Equal(t, domrisk.LevelMedium, result.Risk.Level)
}

func TestAnalyzeContractUnsupportedType(t *testing.T) {
	ext := &fakeExtractor{err: &domain.UnsupportedFileTypeError{Ext: ".xyz"}}
	svc := newTestService(ext, &fakeStructurer{}, &fakeRepo{})

	_, err := svc.AnalyzeContract(context.Background(), domain.Document{Filename: "k.xyz"}, false)

	require.Error(t, err)
	assert.True(t, domain.IsClientError(err))
}

func TestAnalyzeContractExtractionFailureRecovered(t *testing.T) {
	ext := &fakeExtractor{err: errors.New("pdftotext exited 1")}
	repo := &fakeRepo{}
	svc := newTestService(ext, &fakeStructurer{}, repo)

	result, err := svc.AnalyzeContract(context.Background(), domain.Document{Filename: "k.pdf"}, false)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "text extraction failed")
	require.Len(t, repo.saved, 1)
	assert.False(t, repo.saved[0].Success)
}

func TestAnalyzeContractInsufficientText(t *testing.T) {
	ext := &fakeExtractor{result: domain.ExtractedText{Text: "abc", Method: domain.MethodPDFOCR, Length: 3}}
	svc := newTestService(ext, &fakeStructurer{}, &fakeRepo{})

	result, err := svc.AnalyzeContract(context.Background(), domain.Document{Filename: "scan.pdf"}, false)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "sufficient text")
}

func TestAnalyzeContractStructurerUnavailable(t *testing.T) {
	ext := &fakeExtractor{result: validExtracted()}
	str := &fakeStructurer{err: domain.ErrServiceUnavailable}
	svc := newTestService(ext, str, &fakeRepo{})

	result, err := svc.AnalyzeContract(context.Background(), domain.Document{Filename: "k.pdf"}, false)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "not available")
}

func TestAnalyzeContractTrimsLongText(t *testing.T) {
	long := strings.Repeat("Pasal mengenai ketentuan pelaksanaan pekerjaan harian di lapangan.\n", 500)
	ext := &fakeExtractor{result: domain.ExtractedText{
		Text:   long,
		Method: domain.MethodPDFText,
		Length: len(long),
	}}
	str := &fakeStructurer{result: domain.StructureResult{Details: &domain.ContractDetails{}, Confidence: 0.9}}
	svc := newTestService(ext, str, &fakeRepo{})
	svc.SalienceBudget = 2000

	_, err := svc.AnalyzeContract(context.Background(), domain.Document{Filename: "k.pdf"}, false)

	require.NoError(t, err)
	assert.LessOrEqual(t, len(str.gotText), 2000)
	assert.NotEmpty(t, str.gotText)
}

func TestExtractSuccess(t *testing.T) {
	ext := &fakeExtractor{result: validExtracted()}
	repo := &fakeRepo{}
	svc := newTestService(ext, &fakeStructurer{}, repo)

	res, err := svc.Extract(context.Background(), domain.Document{Filename: "k.pdf"})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, domain.MethodPDFText, res.Method)
	assert.NotZero(t, res.TextLength)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, domain.KindExtract, repo.saved[0].Kind)
}

func TestRiskFromTextTooShort(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeStructurer{}, &fakeRepo{})

	_, err := svc.RiskFromText(context.Background(), "pendek")

	assert.ErrorIs(t, err, domain.ErrTextTooShort)
}

func TestRiskFromTextSuccess(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(&fakeExtractor{}, &fakeStructurer{}, repo)

	res, err := svc.RiskFromText(context.Background(), "Kontrak dengan denda keterlambatan pembayaran yang besar.")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, domrisk.LevelMedium, res.Level)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, domain.KindRisk, repo.saved[0].Kind)
	assert.Equal(t, string(domrisk.LevelMedium), repo.saved[0].RiskLevel)
}

func TestRiskBatchEmpty(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeStructurer{}, &fakeRepo{})

	_, err := svc.RiskBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)

	// semua item terlalu pendek juga dianggap batch kosong
	_, err = svc.RiskBatch(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}

func TestRiskBatchSuccess(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeStructurer{}, &fakeRepo{})

	res, err := svc.RiskBatch(context.Background(), []string{
		"Kontrak pertama dengan denda keterlambatan pembayaran.",
		"xx",
		"Kontrak kedua dengan jaminan dan garansi produk.",
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.RiskSummary)
	assert.Equal(t, 2, res.RiskSummary.TotalContracts)
}

func TestHistoryWithoutRepo(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeStructurer{}, nil)
	svc.Repo = nil

	_, err := svc.History(context.Background(), 1, 20)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	_, err = svc.HistoryGet(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	_, err = svc.HistoryLatest(context.Background(), 20)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestHistoryLatest(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(&fakeExtractor{result: validExtracted()}, &fakeStructurer{}, repo)

	_, err := svc.Extract(context.Background(), domain.Document{Filename: "k.pdf"})
	require.NoError(t, err)

	list, err := svc.HistoryLatest(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "k.pdf", list[0].Filename)
}

func TestAuditStoresOCRText(t *testing.T) {
	text := "Hasil OCR kontrak antara PT Alpha dan PT Beta dengan nilai Rp 100.000.000."
	ext := &fakeExtractor{result: domain.ExtractedText{
		Text:   text,
		Method: domain.MethodPDFOCR,
		Length: len(text),
	}}
	audit := newFakeAudit()
	svc := newTestService(ext, &fakeStructurer{}, &fakeRepo{})
	svc.Audit = audit

	res, err := svc.Extract(context.Background(), domain.Document{Filename: "scan.pdf"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	select {
	case stored := <-audit.calls:
		assert.Equal(t, text, stored)
	case <-time.After(2 * time.Second):
		t.Fatal("audit store was never called for OCR text")
	}
}

func TestAuditBackupOCRWhenEnabled(t *testing.T) {
	ocrText := "Teks hasil OCR cadangan dari dokumen yang sama."
	ext := &fakeExtractor{
		result:    validExtracted(), // jalur pdf-text
		ocrResult: domain.ExtractedText{Text: ocrText, Method: domain.MethodPDFOCR, Length: len(ocrText)},
	}
	audit := newFakeAudit()
	svc := newTestService(ext, &fakeStructurer{}, &fakeRepo{})
	svc.Audit = audit
	svc.AlwaysBackupOCR = true

	_, err := svc.Extract(context.Background(), domain.Document{Filename: "k.pdf"})
	require.NoError(t, err)

	select {
	case stored := <-audit.calls:
		assert.Equal(t, ocrText, stored)
	case <-time.After(2 * time.Second):
		t.Fatal("backup OCR audit was never called")
	}
}

func TestAuditBackupOCRSkippedWhenDisabled(t *testing.T) {
	ext := &fakeExtractor{result: validExtracted()}
	audit := newFakeAudit()
	svc := newTestService(ext, &fakeStructurer{}, &fakeRepo{})
	svc.Audit = audit
	svc.AlwaysBackupOCR = false

	_, err := svc.Extract(context.Background(), domain.Document{Filename: "k.pdf"})
	require.NoError(t, err)

	select {
	case stored := <-audit.calls:
		t.Fatalf("unexpected audit upload for direct extraction: %q", stored)
	case <-time.After(100 * time.Millisecond):
	}
}
