package salience

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Salience extractor: memangkas dokumen panjang supaya muat ke context window
// model tanpa membuang baris yang kemungkinan besar memuat identitas kontrak
// (nama pihak, tanggal, nilai).
//
// Kebijakan dua tier:
//   - len(text) <= budget          → teks dikembalikan utuh
//   - len(text) <= 2*budget        → potongan kepala + ekor
//   - selebihnya                   → scoring per baris
//
// Output selalu <= budget.

const (
	// DefaultBudget target karakter hasil pemangkasan
	DefaultBudget = 6000

	minLineLength   = 15
	longLineLength  = 400
	longLinePenalty = 6
	earlyLineCount  = 20
	earlyLineBonus  = 5
	patternBonus    = 8
	properNounBonus = 4
	addressBonus    = 3

	// berhenti mengisi begitu 90% budget terpakai supaya baris marginal
	// tidak memenuhi sisa ruang
	fillRatio = 0.9
	// di bawah rasio ini hasil dianggap terpangkas berat dan diberi catatan
	trimNoteRatio = 0.4
	// jeda >= sekian baris sumber ditandai dengan gap marker
	gapMarkerRun = 5
)

const (
	gapMarker    = "[...bagian dipotong...]"
	middleMarker = "[...bagian tengah dipotong...]"
	trimNote     = "[Catatan: dokumen dipangkas, hanya bagian paling relevan yang dianalisis]"
)

// Extract mengembalikan teks dengan panjang <= budget. Input yang sudah muat
// dikembalikan tanpa perubahan.
func Extract(text string, budget int) string {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if len(text) <= budget {
		return text
	}
	if len(text) <= 2*budget {
		return headTail(text, budget)
	}
	return scoreLines(text, budget)
}

// headTail ambil awal dan akhir dokumen; bagian kunci kontrak biasanya ada
// di pembukaan (identitas pihak) dan penutup (tanda tangan, tanggal).
func headTail(text string, budget int) string {
	part := int(float64(budget) * 0.45)
	head := strings.TrimSpace(truncate(text, part))
	tail := strings.TrimSpace(lastBytes(text, part))
	out := head + "\n\n" + middleMarker + "\n\n" + tail
	return truncate(out, budget)
}

// truncate potong s ke maksimal n byte, mundur ke batas rune supaya
// tidak menyisakan byte UTF-8 yang terbelah.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// lastBytes ambil maksimal n byte terakhir, maju ke batas rune.
func lastBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}

type scoredLine struct {
	index int
	score int
	text  string
}

func scoreLines(text string, budget int) string {
	lines := strings.Split(text, "\n")
	scored := make([]scoredLine, 0, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < minLineLength {
			continue
		}
		scored = append(scored, scoredLine{index: i, score: scoreLine(trimmed, i), text: trimmed})
	}

	// urut skor menurun; stabil supaya baris lebih awal menang saat seri
	sort.SliceStable(scored, func(a, b int) bool { return scored[a].score > scored[b].score })

	limit := int(float64(budget) * fillRatio)
	used := 0
	var selected []scoredLine
	for _, sl := range scored {
		cost := len(sl.text) + 1
		if used+cost > limit {
			continue
		}
		selected = append(selected, sl)
		used += cost
		if used >= limit {
			break
		}
	}

	// kembalikan ke urutan dokumen sebelum disusun ulang
	sort.Slice(selected, func(a, b int) bool { return selected[a].index < selected[b].index })

	var b strings.Builder
	prev := -1
	for _, sl := range selected {
		if prev >= 0 && sl.index-prev >= gapMarkerRun {
			b.WriteString(gapMarker)
			b.WriteString("\n")
		}
		b.WriteString(sl.text)
		b.WriteString("\n")
		prev = sl.index
	}

	out := strings.TrimSpace(b.String())
	if len(out) < int(float64(len(text))*trimNoteRatio) {
		out = trimNote + "\n\n" + out
	}
	return truncate(out, budget)
}

func scoreLine(line string, index int) int {
	lower := strings.ToLower(line)
	score := 0

	for _, tier := range keywordTiers {
		for _, kw := range tier.keywords {
			score += strings.Count(lower, kw) * tier.weight
		}
	}

	if reCurrency.MatchString(line) {
		score += patternBonus
	}
	if reDateNumeric.MatchString(line) || reDateNamed.MatchString(line) {
		score += patternBonus
	}
	if len(reCapitalToken.FindAllString(line, 3)) >= 2 {
		score += properNounBonus
	}
	for _, kw := range addressKeywords {
		if strings.Contains(lower, kw) {
			score += addressBonus
			break
		}
	}
	if index < earlyLineCount {
		score += earlyLineBonus
	}
	if len(line) > longLineLength {
		score -= longLinePenalty
	}
	return score
}
