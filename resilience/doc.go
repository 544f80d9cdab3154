// Package resilience retries transient failures with exponential backoff.
//
// AppErrors carry their own Retryable flag, which the default policy honors:
//
//	db, err := resilience.Do(ctx, resilience.Policy{Attempts: 5, Backoff: time.Second},
//		func(ctx context.Context) (*gorm.DB, error) { return open(ctx) })
package resilience
