package risk

import "context"

// Classifier port ke model sequence classification yang sudah di-fine-tune.
// Kontrak: satu string masuk, label {Low,Medium,High} + skor [0,1] keluar.
type Classifier interface {
	Classify(ctx context.Context, text string) (Level, float64, error)
	Info(ctx context.Context) (ModelInfo, error)
	Available() bool
}
