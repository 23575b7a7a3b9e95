package risk

// Leksikon keyword untuk preprocessing dan deteksi risk factor.
// Dipisah sebagai data statis supaya bisa ditest dan diganti tanpa menyentuh
// logika deteksi.

// PreprocessKeywords istilah yang menandai kalimat relevan-risiko:
// kewajiban, sanksi, force majeure, terminasi, kompensasi, jaminan.
var PreprocessKeywords = []string{
	"kewajiban", "tanggung jawab", "sanksi", "denda", "penalty",
	"force majeure", "pembatalan", "terminasi", "pelanggaran",
	"ganti rugi", "kompensasi", "asuransi", "jaminan", "garansi",
	"risiko", "bahaya", "kerugian", "default", "wanprestasi",
}

// FactorPattern satu kategori risk factor dengan keyword dan severity tetap
type FactorPattern struct {
	Type        string
	Keywords    []string
	Description string
	Severity    Level
}

// FactorPatterns urutan slice dipertahankan supaya output deterministik
var FactorPatterns = []FactorPattern{
	{
		Type:        "payment_delay",
		Keywords:    []string{"terlambat bayar", "keterlambatan pembayaran", "denda keterlambatan"},
		Description: "Risiko keterlambatan pembayaran",
		Severity:    LevelMedium,
	},
	{
		Type:        "force_majeure",
		Keywords:    []string{"force majeure", "keadaan kahar", "bencana alam", "pandemi"},
		Description: "Risiko force majeure",
		Severity:    LevelHigh,
	},
	{
		Type:        "penalty_clause",
		Keywords:    []string{"denda", "sanksi", "penalty", "ganti rugi"},
		Description: "Klausul denda dan sanksi",
		Severity:    LevelMedium,
	},
	{
		Type:        "termination_risk",
		Keywords:    []string{"pembatalan", "terminasi", "pemutusan kontrak"},
		Description: "Risiko pembatalan kontrak",
		Severity:    LevelHigh,
	},
	{
		Type:        "warranty_risk",
		Keywords:    []string{"garansi", "jaminan", "warranty"},
		Description: "Risiko terkait garansi",
		Severity:    LevelLow,
	},
	{
		Type:        "legal_compliance",
		Keywords:    []string{"peraturan", "undang-undang", "hukum", "regulasi"},
		Description: "Risiko kepatuhan hukum",
		Severity:    LevelMedium,
	},
}

// LevelDescriptions deskripsi kualitatif per tingkat risiko
var LevelDescriptions = map[Level]string{
	LevelLow:    "Kontrak memiliki tingkat risiko rendah dengan potensi masalah minimal",
	LevelMedium: "Kontrak memiliki tingkat risiko sedang yang memerlukan perhatian khusus",
	LevelHigh:   "Kontrak memiliki tingkat risiko tinggi yang memerlukan review mendalam",
}

// LevelRecommendations tiga tier rekomendasi dengan urgensi meningkat
var LevelRecommendations = map[Level][]string{
	LevelLow: {
		"Review berkala terhadap pelaksanaan kontrak",
		"Monitoring standar sesuai jadwal",
		"Dokumentasi yang baik untuk audit trail",
	},
	LevelMedium: {
		"Review mendalam pada klausul-klausul kritis",
		"Konsultasi dengan legal expert untuk klausul berisiko",
		"Implementasi monitoring ketat pada milestone penting",
		"Persiapan contingency plan untuk skenario risiko",
	},
	LevelHigh: {
		"Review komprehensif dengan tim legal",
		"Negosiasi ulang untuk klausul berisiko tinggi",
		"Implementasi sistem monitoring real-time",
		"Persiapan exit strategy dan contingency plan",
		"Pertimbangkan asuransi untuk risiko tertentu",
	},
}
