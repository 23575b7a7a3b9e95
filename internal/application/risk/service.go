package risk

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	domain "github.com/ilcs-ai/contract-ai/internal/domain/risk"
)

const (
	// batas input model sequence classification
	fallbackTextLimit = 512
	riskTextLimit     = 1000
)

// Service implements use-cases analisis risiko kontrak.
// Classifier di-inject sekali saat startup dan dianggap immutable.
type Service struct {
	Classifier domain.Classifier
	Logger     *slog.Logger
	ModelName  string
}

func NewService(classifier domain.Classifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Classifier: classifier, Logger: logger, ModelName: "indo_finetuned_bert"}
}

var reWhitespace = regexp.MustCompile(`\s+`)

// preprocess menyempitkan teks ke kalimat-kalimat relevan-risiko supaya muat
// ke batas input model. Tanpa kalimat relevan, ambil awal dokumen.
func preprocess(text string) string {
	text = strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
	if text == "" {
		return ""
	}

	var relevant []string
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, kw := range domain.PreprocessKeywords {
			if strings.Contains(lower, kw) {
				relevant = append(relevant, sentence)
				break
			}
		}
	}

	if len(relevant) == 0 {
		if len(text) > fallbackTextLimit {
			return text[:fallbackTextLimit]
		}
		return text
	}

	riskText := strings.Join(relevant, ". ")
	if len(riskText) > riskTextLimit {
		riskText = riskText[:riskTextLimit]
	}
	return riskText
}

// identifyFactors scan teks ASLI (bukan hasil preprocess) terhadap kategori
// risk factor tetap, independen dari classifier.
func identifyFactors(text string) []domain.Factor {
	lower := strings.ToLower(text)
	var factors []domain.Factor
	for _, p := range domain.FactorPatterns {
		var found []string
		for _, kw := range p.Keywords {
			if strings.Contains(lower, kw) {
				found = append(found, kw)
			}
		}
		if len(found) > 0 {
			factors = append(factors, domain.Factor{
				Type:          p.Type,
				Description:   p.Description,
				Severity:      p.Severity,
				FoundKeywords: found,
				KeywordCount:  len(found),
			})
		}
	}
	return factors
}

func interpretConfidence(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "Sangat yakin - hasil analisis sangat reliable"
	case confidence >= 0.7:
		return "Yakin - hasil analisis dapat diandalkan"
	case confidence >= 0.5:
		return "Cukup yakin - hasil analisis perlu validasi tambahan"
	default:
		return "Kurang yakin - hasil analisis memerlukan review manual"
	}
}

func buildAssessment(level domain.Level, confidence float64, factors []domain.Factor) domain.Assessment {
	description, ok := domain.LevelDescriptions[level]
	if !ok {
		description = "Tingkat risiko tidak dapat ditentukan"
	}

	var high, medium, low int
	for _, f := range factors {
		switch f.Severity {
		case domain.LevelHigh:
			high++
		case domain.LevelMedium:
			medium++
		case domain.LevelLow:
			low++
		}
	}

	return domain.Assessment{
		Description:              description,
		ConfidenceInterpretation: interpretConfidence(confidence),
		Recommendations:          domain.LevelRecommendations[level],
		RiskFactorCount:          len(factors),
		HighSeverityFactors:      high,
		MediumSeverityFactors:    medium,
		LowSeverityFactors:       low,
	}
}

func unknownResult(msg string) domain.Analysis {
	return domain.Analysis{
		Success:    false,
		Level:      domain.LevelUnknown,
		Confidence: 0.0,
		Factors:    []domain.Factor{},
		Assessment: domain.Assessment{
			Description:              "Risk analysis failed",
			ConfidenceInterpretation: "No confidence data",
			Recommendations:          []string{},
		},
		ErrorMessage: msg,
	}
}

// Analyze klasifikasikan risiko satu kontrak. Error dari classifier tidak
// pernah dipropagasi: hasilnya selalu Analysis dengan shape lengkap.
func (s *Service) Analyze(ctx context.Context, contractText string) domain.Analysis {
	if s.Classifier == nil || !s.Classifier.Available() {
		return unknownResult("Risk analysis model not available")
	}

	processed := preprocess(contractText)
	if processed == "" {
		return unknownResult("No text provided for risk analysis")
	}

	level, confidence, err := s.Classifier.Classify(ctx, processed)
	if err != nil {
		s.Logger.Error("risk classification failed", "error", err)
		return unknownResult(fmt.Sprintf("Risk analysis failed: %v", err))
	}

	factors := identifyFactors(contractText)
	return domain.Analysis{
		Success:             true,
		Level:               level,
		Confidence:          confidence,
		Factors:             factors,
		Assessment:          buildAssessment(level, confidence, factors),
		ProcessedTextLength: len(processed),
		ModelUsed:           s.ModelName,
	}
}

// ModelInfo introspeksi metadata model klasifikasi
func (s *Service) ModelInfo(ctx context.Context) domain.ModelInfo {
	if s.Classifier == nil || !s.Classifier.Available() {
		return domain.ModelInfo{ModelAvailable: false, ErrorMessage: "Model not available"}
	}
	info, err := s.Classifier.Info(ctx)
	if err != nil {
		s.Logger.Error("model info lookup failed", "error", err)
		return domain.ModelInfo{ModelAvailable: false, ErrorMessage: fmt.Sprintf("Failed to get model info: %v", err)}
	}
	info.ModelAvailable = true
	return info
}

// AnalyzeBatch analisis banyak kontrak secara berurutan. Teks di bawah batas
// minimal dilewati; kegagalan satu item tidak membatalkan item lain.
func (s *Service) AnalyzeBatch(ctx context.Context, texts []string, minLength int) (domain.Summary, int) {
	distribution := map[domain.Level]int{
		domain.LevelLow: 0, domain.LevelMedium: 0, domain.LevelHigh: 0, domain.LevelUnknown: 0,
	}
	var (
		analyzed        int
		totalConfidence float64
		factorCounts    = map[string]int{}
		highRisk        []domain.HighRiskContract
	)

	for i, text := range texts {
		if len(strings.TrimSpace(text)) < minLength {
			continue
		}
		result := s.Analyze(ctx, text)
		if !result.Success {
			s.Logger.Warn("batch item failed", "index", i, "error", result.ErrorMessage)
			continue
		}
		analyzed++
		distribution[result.Level]++
		totalConfidence += result.Confidence
		for _, f := range result.Factors {
			factorCounts[f.Type]++
		}
		if result.Level == domain.LevelHigh {
			highRisk = append(highRisk, domain.HighRiskContract{
				ContractIndex:   i,
				Level:           result.Level,
				Confidence:      result.Confidence,
				RiskFactorCount: len(result.Factors),
			})
		}
	}

	if analyzed == 0 {
		return domain.Summary{}, 0
	}

	avg := totalConfidence / float64(analyzed)

	// lima tipe factor paling sering, persentase terhadap jumlah kontrak
	types := make([]string, 0, len(factorCounts))
	for t := range factorCounts {
		types = append(types, t)
	}
	sort.Slice(types, func(a, b int) bool {
		if factorCounts[types[a]] != factorCounts[types[b]] {
			return factorCounts[types[a]] > factorCounts[types[b]]
		}
		return types[a] < types[b]
	})
	if len(types) > 5 {
		types = types[:5]
	}
	common := make([]domain.FactorFrequency, 0, len(types))
	for _, t := range types {
		common = append(common, domain.FactorFrequency{
			Type:            t,
			OccurrenceCount: factorCounts[t],
			Percentage:      roundPct(float64(factorCounts[t]) / float64(analyzed) * 100),
		})
	}

	var recs []string
	if distribution[domain.LevelHigh] > 0 {
		recs = append(recs, fmt.Sprintf("%d kontrak berisiko tinggi memerlukan review mendalam", distribution[domain.LevelHigh]))
	}
	if float64(distribution[domain.LevelMedium]) > float64(analyzed)*0.5 {
		recs = append(recs, "Mayoritas kontrak memiliki risiko sedang - perlu monitoring ketat")
	}
	if avg < 0.7 {
		recs = append(recs, "Confidence score rendah - pertimbangkan review manual tambahan")
	}

	return domain.Summary{
		TotalContracts:    analyzed,
		RiskDistribution:  distribution,
		AverageConfidence: round3(avg),
		CommonRiskFactors: common,
		HighRiskContracts: highRisk,
		Recommendations:   recs,
	}, analyzed
}

func round3(v float64) float64 { return float64(int(v*1000+0.5)) / 1000 }

func roundPct(v float64) float64 { return float64(int(v*10+0.5)) / 10 }
