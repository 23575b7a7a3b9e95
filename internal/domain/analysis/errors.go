package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// AllowedExtensions daftar ekstensi file yang diterima pipeline
var AllowedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".tiff", ".bmp", ".txt"}

// MinTextLength batas minimal teks supaya layak dianalisis
const MinTextLength = 10

// ErrServiceUnavailable: kolaborator eksternal (LLM / classifier) tidak
// dikonfigurasi atau gagal init saat startup.
var ErrServiceUnavailable = errors.New("service unavailable")

// ErrTextTooShort teks hasil ekstraksi terlalu pendek untuk dianalisis
var ErrTextTooShort = fmt.Errorf("extracted text must be at least %d characters", MinTextLength)

// ErrEmptyBatch batch tanpa satupun teks yang valid
var ErrEmptyBatch = errors.New("at least one contract text is required")

// UnsupportedFileTypeError tipe file di luar daftar yang diizinkan
type UnsupportedFileTypeError struct {
	Ext string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s (allowed: %s)", e.Ext, strings.Join(AllowedExtensions, ", "))
}

// IsClientError true untuk error yang harus jadi HTTP 400
func IsClientError(err error) bool {
	var ufe *UnsupportedFileTypeError
	if errors.As(err, &ufe) {
		return true
	}
	return errors.Is(err, ErrTextTooShort) || errors.Is(err, ErrEmptyBatch)
}
