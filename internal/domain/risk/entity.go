package risk

// Level enum tingkat risiko hasil klasifikasi
type Level string

const (
	LevelLow     Level = "Low"
	LevelMedium  Level = "Medium"
	LevelHigh    Level = "High"
	LevelUnknown Level = "Unknown"
)

// Factor satu kategori risiko yang terdeteksi lewat keyword matching
type Factor struct {
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	Severity      Level    `json:"severity"`
	FoundKeywords []string `json:"found_keywords"`
	KeywordCount  int      `json:"keyword_count"`
}

// Assessment ringkasan kualitatif hasil klasifikasi
type Assessment struct {
	Description              string   `json:"description"`
	ConfidenceInterpretation string   `json:"confidence_interpretation"`
	Recommendations          []string `json:"recommendations"`
	RiskFactorCount          int      `json:"risk_factor_count"`
	HighSeverityFactors      int      `json:"high_severity_factors"`
	MediumSeverityFactors    int      `json:"medium_severity_factors"`
	LowSeverityFactors       int      `json:"low_severity_factors"`
}

// Analysis hasil lengkap analisis risiko satu kontrak.
// Invariant: Success=false → ErrorMessage terisi, Level=Unknown, Confidence=0.
type Analysis struct {
	Success             bool       `json:"success"`
	Level               Level      `json:"risk_level"`
	Confidence          float64    `json:"confidence"`
	Factors             []Factor   `json:"risk_factors"`
	Assessment          Assessment `json:"risk_assessment"`
	ProcessedTextLength int        `json:"processed_text_length,omitempty"`
	ModelUsed           string     `json:"model_used,omitempty"`
	ErrorMessage        string     `json:"error_message,omitempty"`
}

// FactorFrequency frekuensi satu tipe risk factor pada batch
type FactorFrequency struct {
	Type            string  `json:"type"`
	OccurrenceCount int     `json:"occurrence_count"`
	Percentage      float64 `json:"percentage"`
}

// HighRiskContract penanda kontrak berisiko tinggi dalam batch
type HighRiskContract struct {
	ContractIndex   int     `json:"contract_index"`
	Level           Level   `json:"risk_level"`
	Confidence      float64 `json:"confidence"`
	RiskFactorCount int     `json:"risk_factor_count"`
}

// Summary statistik agregat hasil analisis batch.
// Kontrak dengan teks di bawah batas minimal dilewati, bukan digagalkan.
type Summary struct {
	TotalContracts    int                `json:"total_contracts"`
	RiskDistribution  map[Level]int      `json:"risk_distribution"`
	AverageConfidence float64            `json:"average_confidence"`
	CommonRiskFactors []FactorFrequency  `json:"common_risk_factors"`
	HighRiskContracts []HighRiskContract `json:"high_risk_contracts"`
	Recommendations   []string           `json:"recommendations"`
}

// ModelInfo metadata model klasifikasi untuk endpoint introspeksi
type ModelInfo struct {
	ModelPath      string            `json:"model_path"`
	ModelType      string            `json:"model_type"`
	RiskLevels     map[string]string `json:"risk_levels"`
	ModelAvailable bool              `json:"model_available"`
	Device         string            `json:"device"`
	ErrorMessage   string            `json:"error_message,omitempty"`
}
