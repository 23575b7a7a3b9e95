package salience

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractShortTextUnchanged(t *testing.T) {
	text := "PT Alpha dan PT Beta menandatangani kontrak pada 1 Januari 2024."
	assert.Equal(t, text, Extract(text, 6000))
}

func TestExtractNeverExceedsBudget(t *testing.T) {
	line := "Pasal tambahan mengenai ketentuan umum pelaksanaan pekerjaan.\n"
	tests := []struct {
		name string
		text string
	}{
		{"head tail range", strings.Repeat(line, 29)},
		{"scoring range", strings.Repeat(line, 500)},
	}
	budget := 1000
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Extract(tt.text, budget)
			assert.LessOrEqual(t, len(out), budget)
		})
	}
}

func TestExtractHeadTailKeepsOpeningAndClosing(t *testing.T) {
	head := "PERJANJIAN KERJASAMA antara PT Alpha Nusantara dengan PT Beta Sejahtera"
	middle := strings.Repeat("Ketentuan teknis pelaksanaan pekerjaan dijelaskan pada lampiran.\n", 100)
	tail := "Kontrak berakhir pada tanggal 31 Desember 2025. Ditandatangani di Jakarta."
	text := head + "\n" + middle + tail

	budget := len(text)/2 + 100 // jatuh di tier head+tail
	out := Extract(text, budget)

	assert.Contains(t, out, "PERJANJIAN KERJASAMA")
	assert.Contains(t, out, "Ditandatangani di Jakarta.")
	assert.Contains(t, out, middleMarker)
	assert.LessOrEqual(t, len(out), budget)
}

func TestExtractScoringPrefersContractIdentity(t *testing.T) {
	var b strings.Builder
	b.WriteString("PERJANJIAN SEWA MENYEWA\n")
	b.WriteString("Pihak Pertama: PT Alpha Nusantara, beralamat di Jalan Sudirman No. 1 Jakarta\n")
	b.WriteString("Pihak Kedua: PT Beta Sejahtera\n")
	b.WriteString("Nilai kontrak sebesar Rp 500.000.000\n")
	for i := 0; i < 400; i++ {
		b.WriteString("Ketentuan teknis tambahan yang menjelaskan prosedur operasional harian secara umum tanpa identitas.\n")
	}
	b.WriteString("Kontrak ini berakhir pada tanggal 31 Desember 2025\n")
	text := b.String()

	budget := 2000 // jauh di bawah setengah panjang teks, masuk tier scoring
	out := Extract(text, budget)

	assert.LessOrEqual(t, len(out), budget)
	assert.Contains(t, out, "Pihak Pertama: PT Alpha Nusantara")
	assert.Contains(t, out, "Pihak Kedua: PT Beta Sejahtera")
	assert.Contains(t, out, "berakhir pada tanggal 31 Desember 2025")
	assert.Contains(t, out, gapMarker)
}

func TestExtractNeverSplitsRunes(t *testing.T) {
	// offset ganjil di depan membuat batas potong head+tail jatuh
	// di tengah rune dua byte
	text := "a" + strings.Repeat("é", 900)
	out := Extract(text, 1000)

	assert.True(t, utf8.ValidString(out))
	assert.LessOrEqual(t, len(out), 1000)
}

func TestTruncateRuneBoundary(t *testing.T) {
	s := "a" + strings.Repeat("é", 10) // rune dua byte mulai di offset ganjil

	cut := truncate(s, 4)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "aé", cut) // byte ke-4 membelah é, mundur ke 3

	assert.Equal(t, s, truncate(s, len(s)))

	tail := lastBytes(s, 4)
	assert.True(t, utf8.ValidString(tail))
	assert.Equal(t, "éé", tail)
}

func TestExtractZeroBudgetUsesDefault(t *testing.T) {
	text := strings.Repeat("a", DefaultBudget-1)
	assert.Equal(t, text, Extract(text, 0))
}

func TestScoreLineSignals(t *testing.T) {
	identity := scoreLine("Pihak Pertama: PT Alpha Nusantara", 100)
	boilerplate := scoreLine("Ketentuan teknis tambahan prosedur operasional", 100)
	assert.Greater(t, identity, boilerplate)

	early := scoreLine("Ketentuan teknis tambahan prosedur operasional", 0)
	assert.Greater(t, early, boilerplate)
}
