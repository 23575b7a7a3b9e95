package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilcs-ai/contract-ai/internal/application"
	appanalysis "github.com/ilcs-ai/contract-ai/internal/application/analysis"
	apprisk "github.com/ilcs-ai/contract-ai/internal/application/risk"
	domain "github.com/ilcs-ai/contract-ai/internal/domain/analysis"
	domrisk "github.com/ilcs-ai/contract-ai/internal/domain/risk"
	"github.com/ilcs-ai/contract-ai/internal/infra/extract"
)

type stubStructurer struct{}

func (stubStructurer) Structure(ctx context.Context, text string) (domain.StructureResult, error) {
	return domain.StructureResult{
		Details:    &domain.ContractDetails{ContractName: "Perjanjian Uji"},
		Confidence: 0.9,
	}, nil
}

type stubClassifier struct{}

func (stubClassifier) Classify(ctx context.Context, text string) (domrisk.Level, float64, error) {
	return domrisk.LevelMedium, 0.8, nil
}

func (stubClassifier) Info(ctx context.Context) (domrisk.ModelInfo, error) {
	return domrisk.ModelInfo{ModelType: "BertForSequenceClassification"}, nil
}

func (stubClassifier) Available() bool { return true }

type stubHistoryRepo struct {
	recs []*domain.Record
}

func (s *stubHistoryRepo) Save(ctx context.Context, rec *domain.Record) error {
	s.recs = append(s.recs, rec)
	return nil
}

func (s *stubHistoryRepo) Get(ctx context.Context, id domain.AnalysisID) (*domain.Record, error) {
	for _, rec := range s.recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubHistoryRepo) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit > 0 && len(s.recs) > limit {
		return s.recs[:limit], nil
	}
	return s.recs, nil
}

func (s *stubHistoryRepo) Paginate(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	return domain.PaginatedResult{Data: s.recs, Page: page, PageSize: pageSize, Total: int64(len(s.recs))}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	riskSvc := apprisk.NewService(stubClassifier{}, nil)
	svc := &appanalysis.Service{
		Extractor:  extract.NewExtractor(extract.Config{}, nil),
		Structurer: stubStructurer{},
		Risk:       riskSvc,
		Clock:      application.SystemClock{},
		Logger:     slog.Default(),
	}
	return NewRouter(svc, riskSvc, Options{})
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestExtractEndpointUnsupportedType(t *testing.T) {
	r := newTestRouter(t)
	body, ctype := multipartBody(t, "doc.xyz", "isi dokumen")

	req := httptest.NewRequest(http.MethodPost, "/api/analyze/extract", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], ".xyz")
	assert.Contains(t, resp["error"], ".pdf")
}

func TestExtractEndpointPlainText(t *testing.T) {
	r := newTestRouter(t)
	content := "Perjanjian kerjasama antara PT Alpha dan PT Beta untuk pengadaan barang."
	body, ctype := multipartBody(t, "kontrak.txt", content)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze/extract", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp appanalysis.ExtractResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, domain.MethodPlain, resp.Method)
	assert.Equal(t, content, resp.ExtractedText)
}

func TestAnalyzeContractEndpoint(t *testing.T) {
	r := newTestRouter(t)
	content := "Perjanjian sewa dengan denda keterlambatan pembayaran antara dua pihak."
	body, ctype := multipartBody(t, "kontrak.txt", content)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze/contract?with_risk=true", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Perjanjian Uji", resp.ContractDetails.ContractName)
	require.NotNil(t, resp.Risk)
	assert.Equal(t, domrisk.LevelMedium, resp.Risk.Level)
}

func TestRiskTextEndpointTooShort(t *testing.T) {
	r := newTestRouter(t)

	payload := `{"contract_text": "pendek"}`
	req := httptest.NewRequest(http.MethodPost, "/api/risk/analyze/text", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRiskTextEndpointSuccess(t *testing.T) {
	r := newTestRouter(t)

	payload := `{"contract_text": "Kontrak dengan klausul denda keterlambatan pembayaran yang berat."}`
	req := httptest.NewRequest(http.MethodPost, "/api/risk/analyze/text", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp appanalysis.RiskResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, domrisk.LevelMedium, resp.Level)
	assert.False(t, resp.AnalysisTimestamp.IsZero())
}

func TestRiskBatchEndpointEmpty(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/risk/analyze/batch", strings.NewReader(`{"contract_texts": []}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRiskBatchEndpointSuccess(t *testing.T) {
	r := newTestRouter(t)

	payload := `{"contract_texts": [
		"Kontrak pertama dengan denda keterlambatan pembayaran.",
		"Kontrak kedua dengan jaminan dan garansi produk."
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/risk/analyze/batch", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp appanalysis.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.RiskSummary)
	assert.Equal(t, 2, resp.RiskSummary.TotalContracts)
}

func TestModelInfoEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/risk/model/info", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var info domrisk.ModelInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.True(t, info.ModelAvailable)
}

func TestHistoryEndpointWithoutRepo(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/analyses", "/api/analyses/latest"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}

func TestLatestEndpoint(t *testing.T) {
	repo := &stubHistoryRepo{recs: []*domain.Record{
		{ID: "a1", Filename: "kontrak-a.pdf", Kind: domain.KindDetail},
		{ID: "a2", Filename: "kontrak-b.pdf", Kind: domain.KindRisk},
	}}
	riskSvc := apprisk.NewService(stubClassifier{}, nil)
	svc := &appanalysis.Service{
		Extractor:  extract.NewExtractor(extract.Config{}, nil),
		Structurer: stubStructurer{},
		Risk:       riskSvc,
		Repo:       repo,
		Clock:      application.SystemClock{},
		Logger:     slog.Default(),
	}
	r := NewRouter(svc, riskSvc, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/latest?limit=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []*domain.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, domain.AnalysisID("a1"), list[0].ID)
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestAuthRequiredWhenConfigured(t *testing.T) {
	riskSvc := apprisk.NewService(stubClassifier{}, nil)
	svc := &appanalysis.Service{
		Extractor:  extract.NewExtractor(extract.Config{}, nil),
		Structurer: stubStructurer{},
		Risk:       riskSvc,
		Clock:      application.SystemClock{},
	}
	r := NewRouter(svc, riskSvc, Options{APIKeys: map[string]string{"ci": "secret-key"}})

	req := httptest.NewRequest(http.MethodGet, "/api/risk/model/info", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/risk/model/info", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// health check tetap terbuka
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
