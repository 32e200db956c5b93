package shopping

import "time"

const (
	defaultRetryBase = 500 * time.Millisecond
	maxBackoff       = 30 * time.Second
)

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
