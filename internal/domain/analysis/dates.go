package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Normalisasi tanggal terbilang bahasa Indonesia hasil keluaran model,
// misalnya "Dua Puluh Bulan Februari Tahun Dua Ribu Dua Puluh Lima" →
// "20 Februari 2025". Kalau ketiga komponen (hari, bulan, tahun) tidak bisa
// dipastikan, string asli dikembalikan apa adanya — jangan menebak.

var monthNames = []string{
	"januari", "februari", "maret", "april", "mei", "juni",
	"juli", "agustus", "september", "oktober", "november", "desember",
}

var monthTitle = map[string]string{
	"januari": "Januari", "februari": "Februari", "maret": "Maret",
	"april": "April", "mei": "Mei", "juni": "Juni", "juli": "Juli",
	"agustus": "Agustus", "september": "September", "oktober": "Oktober",
	"november": "November", "desember": "Desember",
}

var numberWords = map[string]int{
	"nol": 0, "satu": 1, "dua": 2, "tiga": 3, "empat": 4,
	"lima": 5, "enam": 6, "tujuh": 7, "delapan": 8, "sembilan": 9,
}

// kata pengisi yang boleh diabaikan di antara komponen tanggal
var fillerWords = map[string]bool{
	"tanggal": true, "bulan": true, "tahun": true, "hari": true, "pada": true,
}

var reNormalizedDate = regexp.MustCompile(`(?i)^\s*\d{1,2}\s+(januari|februari|maret|april|mei|juni|juli|agustus|september|oktober|november|desember)\s+\d{4}\s*$`)

// NormalizeIndonesianDate mengubah tanggal terbilang menjadi bentuk
// "<hari> <NamaBulan> <tahun>". Idempotent: input yang sudah normal tidak
// diubah; input yang mengandung kata tak dikenal juga dikembalikan utuh.
func NormalizeIndonesianDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	if reNormalizedDate.MatchString(s) {
		return s
	}

	tokens := strings.Fields(strings.ToLower(s))
	var words []string
	for _, t := range tokens {
		t = strings.Trim(t, ",.;:")
		if t == "" || fillerWords[t] {
			continue
		}
		words = append(words, t)
	}

	monthIdx := -1
	month := ""
	for i, w := range words {
		for _, m := range monthNames {
			if w == m {
				monthIdx = i
				month = m
				break
			}
		}
		if monthIdx >= 0 {
			break
		}
	}
	if monthIdx < 0 {
		return s
	}

	day, ok := parseNumberWords(words[:monthIdx])
	if !ok || day < 1 || day > 31 {
		return s
	}
	year, ok := parseNumberWords(words[monthIdx+1:])
	if !ok || year < 1000 || year > 2999 {
		return s
	}

	return fmt.Sprintf("%d %s %d", day, monthTitle[month], year)
}

// parseNumberWords mengubah deretan kata bilangan Indonesia menjadi angka.
// Mendukung satuan, belasan, puluhan, ratusan, dan ribuan; token numerik
// murni ("20") juga diterima.
func parseNumberWords(words []string) (int, bool) {
	if len(words) == 0 {
		return 0, false
	}
	total, cur := 0, 0
	for _, w := range words {
		if n, err := strconv.Atoi(w); err == nil {
			cur += n
			continue
		}
		if n, ok := numberWords[w]; ok {
			cur += n
			continue
		}
		switch w {
		case "sepuluh":
			cur += 10
		case "sebelas":
			cur += 11
		case "belas":
			cur += 10
		case "puluh":
			total += cur * 10
			cur = 0
		case "seratus":
			total += 100
		case "ratus":
			total += cur * 100
			cur = 0
		case "seribu":
			total += 1000
		case "ribu":
			total = (total + cur) * 1000
			cur = 0
		default:
			return 0, false
		}
	}
	return total + cur, true
}

// NormalizeDates menjalankan normalisasi pada field tanggal ContractDetails.
func NormalizeDates(d *ContractDetails) {
	if d == nil {
		return
	}
	d.ContractStartDate = NormalizeIndonesianDate(d.ContractStartDate)
	d.ContractEndDate = NormalizeIndonesianDate(d.ContractEndDate)
}
