package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/ilcs-ai/contract-ai/internal/application/analysis"
	apprisk "github.com/ilcs-ai/contract-ai/internal/application/risk"
	domain "github.com/ilcs-ai/contract-ai/internal/domain/analysis"
	"github.com/ilcs-ai/contract-ai/internal/middleware"
)

// Options pengaturan router yang datang dari config
type Options struct {
	AllowedOrigins []string
	MaxFileSize    int64
	APIKeys        map[string]string
	RateCapacity   int
	RateRefillRate int
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	svc     *appanalysis.Service
	riskSvc *apprisk.Service
	opts    Options
}

func NewRouter(svc *appanalysis.Service, riskSvc *apprisk.Service, opts Options) http.Handler {
	r := &Router{svc: svc, riskSvc: riskSvc, opts: opts}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	if opts.RateCapacity > 0 && opts.RateRefillRate > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefillRate))
	}

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze/extract", r.wrap(r.handleExtract))
		rt.Post("/analyze/contract", r.wrap(r.handleAnalyzeContract))
		rt.Post("/risk/analyze/text", r.wrap(r.handleRiskText))
		rt.Post("/risk/analyze/file", r.wrap(r.handleRiskFile))
		rt.Post("/risk/analyze/batch", r.wrap(r.handleRiskBatch))
		rt.Get("/risk/model/info", r.wrap(r.handleModelInfo))
		rt.Get("/analyses", r.wrap(r.handleHistory))
		rt.Get("/analyses/latest", r.wrap(r.handleHistoryLatest))
		rt.Get("/analyses/{id}", r.wrap(r.handleHistoryGet))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap memetakan error domain ke status HTTP.
// Kegagalan yang sudah di-recover service (Success=false) tidak lewat sini.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if domain.IsClientError(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			if errors.Is(err, domain.ErrServiceUnavailable) {
				writeError(w, http.StatusServiceUnavailable, "service not available")
				return
			}
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// readUpload baca field multipart "file" jadi Document.
// Validasi ekstensi dan ukuran di sini supaya request jelek ditolak 400
// sebelum menyentuh pipeline.
func (r *Router) readUpload(req *http.Request) (domain.Document, error) {
	maxSize := r.opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = middleware.DefaultMaxFileSize
	}
	req.Body = http.MaxBytesReader(nil, req.Body, maxSize)

	file, header, err := req.FormFile("file")
	if err != nil {
		return domain.Document{}, &domain.UnsupportedFileTypeError{Ext: "(missing file field)"}
	}
	defer file.Close()

	if err := middleware.ValidateFilename(header.Filename, domain.AllowedExtensions); err != nil {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		return domain.Document{}, &domain.UnsupportedFileTypeError{Ext: ext}
	}
	if err := middleware.ValidateFileSize(header.Size, maxSize); err != nil {
		return domain.Document{}, fmt.Errorf("reading upload: %w", err)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return domain.Document{}, fmt.Errorf("reading upload: %w", err)
	}
	return domain.Document{Filename: header.Filename, Content: content}, nil
}

// POST /api/analyze/extract
func (r *Router) handleExtract(w http.ResponseWriter, req *http.Request) error {
	doc, err := r.readUpload(req)
	if err != nil {
		return err
	}

	res, err := r.svc.Extract(req.Context(), doc)
	if err != nil {
		return err
	}
	countMethod(res.Method)
	return writeJSON(w, res)
}

// POST /api/analyze/contract?with_risk=true
func (r *Router) handleAnalyzeContract(w http.ResponseWriter, req *http.Request) error {
	doc, err := r.readUpload(req)
	if err != nil {
		return err
	}
	withRisk := req.URL.Query().Get("with_risk") == "true"

	middleware.IncrementAnalyses()
	res, err := r.svc.AnalyzeContract(req.Context(), doc, withRisk)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	if !res.Success {
		middleware.IncrementAnalysesFailed()
	}
	countMethod(res.Method)
	return writeJSON(w, res)
}

// POST /api/risk/analyze/text
// Body: {"contract_text": "..."}
func (r *Router) handleRiskText(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ContractText string `json:"contract_text"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil
	}

	res, err := r.svc.RiskFromText(req.Context(), body.ContractText)
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}

// POST /api/risk/analyze/file
func (r *Router) handleRiskFile(w http.ResponseWriter, req *http.Request) error {
	doc, err := r.readUpload(req)
	if err != nil {
		return err
	}

	res, err := r.svc.RiskFromFile(req.Context(), doc)
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}

// POST /api/risk/analyze/batch
// Body: {"contract_texts": ["...", "..."]}
func (r *Router) handleRiskBatch(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ContractTexts []string `json:"contract_texts"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil
	}

	res, err := r.svc.RiskBatch(req.Context(), body.ContractTexts)
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}

// GET /api/risk/model/info
func (r *Router) handleModelInfo(w http.ResponseWriter, req *http.Request) error {
	info := r.riskSvc.ModelInfo(req.Context())
	return writeJSON(w, info)
}

// GET /api/analyses?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	page = middleware.ValidatePage(page)
	size = middleware.ValidateLimit(size)

	list, err := r.svc.History(req.Context(), page, size)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /api/analyses/latest?limit=20
func (r *Router) handleHistoryLatest(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.svc.HistoryLatest(req.Context(), limit)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /api/analyses/{id}
func (r *Router) handleHistoryGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")

	rec, err := r.svc.HistoryGet(req.Context(), domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

func countMethod(m domain.Method) {
	if m == domain.MethodPDFOCR || m == domain.MethodImageOCR {
		middleware.IncrementOCRRuns()
	}
}
