package salience

import "regexp"

// Leksikon dan pola untuk scoring baris. Bobot dibagi tiga tier: istilah yang
// hampir pasti memuat identitas kontrak, istilah pendukung, dan istilah legal
// generik.

type keywordTier struct {
	weight   int
	keywords []string
}

var keywordTiers = []keywordTier{
	{
		weight: 10,
		keywords: []string{
			"pihak pertama", "pihak kedua", "kontrak", "perjanjian",
			"nama", "nilai", "tanggal", "berakhir", "berlaku", "jangka waktu",
		},
	},
	{
		weight: 5,
		keywords: []string{
			"alamat", "harga", "biaya", "mulai", "sampai",
			"perusahaan", "judul", "masa berlaku", "durasi",
		},
	},
	{
		weight: 2,
		keywords: []string{
			"agreement", "pasal", "ketentuan", "pembayaran", "pihak",
			"tuan", "nyonya", "pt ", "cv ", "rupiah",
		},
	},
}

// addressKeywords penanda jalan/kota untuk bonus alamat
var addressKeywords = []string{
	"jalan", "jl.", "jl ", "kota", "kabupaten", "kecamatan",
	"kelurahan", "provinsi", "no.",
}

var (
	// nominal uang: Rp 1.000.000, USD 5,000, $100, 2.000.000 rupiah
	reCurrency = regexp.MustCompile(`(?i)(rp\.?\s?[\d.,]+|usd\s?[\d.,]+|\$\s?[\d.,]+|[\d.,]+\s?rupiah)`)

	// tanggal: 12-01-2025, 2025/01/12, 12 Januari 2025
	reDateNumeric = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}|\d{4}[-/]\d{1,2}[-/]\d{1,2}`)
	reDateNamed   = regexp.MustCompile(`(?i)\d{1,2}\s+(januari|februari|maret|april|mei|juni|juli|agustus|september|oktober|november|desember)\s+\d{2,4}`)

	// token berawalan kapital untuk heuristik nama diri
	reCapitalToken = regexp.MustCompile(`\b[A-Z][a-zA-Z]+`)
)
