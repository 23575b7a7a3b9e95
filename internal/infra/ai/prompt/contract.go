package prompt

import "fmt"

// GetSystemPrompt instruksi sistem untuk model structuring
func GetSystemPrompt() string {
	return "Anda adalah AI yang ahli dalam menganalisis kontrak Indonesia. " +
		"Ekstrak informasi spesifik yang diminta dengan akurat dari teks kontrak. " +
		"Jawab HANYA dengan satu objek JSON valid tanpa markdown dan tanpa komentar."
}

// GetContractPrompt membangun prompt ekstraksi field kontrak.
// Skema JSON ditulis eksplisit beserta contoh konversi tanggal terbilang
// supaya model mengembalikan tanggal dalam format numerik.
func GetContractPrompt(text string) string {
	return fmt.Sprintf(`Analisis kontrak berikut dan ekstrak informasi spesifik ini dalam format JSON:

{
    "contract_name": "nama kontrak atau judul dokumen",
    "first_party": {
        "name": "nama pihak pertama",
        "type": "jenis (perusahaan/individu)",
        "address": "alamat jika ada"
    },
    "second_party": {
        "name": "nama pihak kedua",
        "type": "jenis (perusahaan/individu)",
        "address": "alamat jika ada"
    },
    "contract_start_date": "tanggal mulai kontrak jika ada",
    "contract_end_date": "tanggal berakhir kontrak",
    "contract_duration": "durasi kontrak",
    "contract_value": "nilai kontrak jika disebutkan",
    "contract_type": "jenis kontrak",
    "key_terms": ["poin-poin penting dalam kontrak"]
}

Instruksi:
1. Fokus pada informasi yang diminta: nama kontrak, pihak pertama, pihak kedua, dan tanggal berakhir
2. Untuk pihak pertama dan kedua, cari nama perusahaan, organisasi, atau individu
3. Untuk tanggal berakhir, cari istilah seperti "berakhir pada", "berlaku sampai", "jangka waktu", "masa berlaku"
4. Tanggal terbilang WAJIB dikonversi ke format angka hari + nama bulan + angka tahun. Contoh:
   - "Dua Puluh Bulan Februari Tahun Dua Ribu Dua Puluh Lima" -> "20 Februari 2025"
   - "Tiga Puluh Satu Desember Dua Ribu Dua Puluh Lima" -> "31 Desember 2025"
5. Jika informasi tidak ditemukan, berikan null
6. Berikan respons dalam bahasa Indonesia
7. Jika teks terpotong, analisis dengan informasi yang tersedia

Teks kontrak (karakter: %d):
%s`, len(text), text)
}
