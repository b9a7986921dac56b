package ingest

import (
	"context"

	"github.com/sig-0/mepquotes/quote"
	"github.com/sig-0/mepquotes/retry"
)

// indexedResult is a provider result tagged with the provider's registration index
type indexedResult struct {
	result *quote.Result
	index  int
}

// Less is utilized to order results by registration index (lowest == first)
func (a indexedResult) Less(b indexedResult) bool {
	return a.index < b.index
}

// handleJob fetches using the provider, retrying failed attempts.
// Returns nil if the provider yielded no quote
func (o *Orchestrator) handleJob(ctx context.Context, p Provider) *quote.Result {
	result, ok := retry.Do(
		ctx,
		p.Fetch,
		retry.WithName(p.Name()),
		retry.WithMaxAttempts(o.maxAttempts),
		retry.WithDelay(o.retryDelay),
		retry.WithLogger(o.logger),
	)

	if !ok || result == nil {
		o.logger.Warn(
			"source unavailable",
			"name", p.Name(),
		)

		return nil
	}

	o.logger.Info(
		"fetched quote",
		"name", p.Name(),
		"value", result.Value,
		"elapsed", result.Elapsed.String(),
	)

	return result
}
