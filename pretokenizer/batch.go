package pretokenizer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ollama/pretokenizer/envconfig"
)

// SplitBatch splits texts concurrently. Results are in input order. The
// first failure cancels the batch.
func (s *Splitter) SplitBatch(ctx context.Context, texts []string) ([][]string, error) {
	results := make([][]string, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(envconfig.NumParallel, 1))
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			words, err := s.Split(text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}

			results[i] = words
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
