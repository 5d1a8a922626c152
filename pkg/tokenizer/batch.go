package tokenizer

import (
	"log/slog"
	"runtime"
	"slices"

	conciter "github.com/sourcegraph/conc/iter"
)

// TokenizeBatch tokenizes independent texts on up to workers goroutines
// (GOMAXPROCS when workers <= 0). Results are in input order.
func (t *Tokenizer) TokenizeBatch(texts []string, workers int, opts ...CallOption) [][]string {
	workers = batchWorkers(workers, len(texts))
	t.logger.Debug("tokenize batch", slog.Int("texts", len(texts)), slog.Int("workers", workers))
	mapper := conciter.Mapper[string, []string]{MaxGoroutines: workers}
	return mapper.Map(texts, func(text *string) []string {
		return slices.Collect(t.Tokenize(*text, opts...))
	})
}

// FeaturizeBatch featurizes independent texts on up to workers goroutines
// (GOMAXPROCS when workers <= 0). Results are in input order.
func (t *Tokenizer) FeaturizeBatch(texts []string, workers int, opts ...CallOption) [][]*Token {
	workers = batchWorkers(workers, len(texts))
	t.logger.Debug("featurize batch", slog.Int("texts", len(texts)), slog.Int("workers", workers))
	mapper := conciter.Mapper[string, []*Token]{MaxGoroutines: workers}
	return mapper.Map(texts, func(text *string) []*Token {
		return slices.Collect(t.Featurize(*text, opts...))
	})
}

func batchWorkers(workers, n int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return max(1, min(workers, n))
}
