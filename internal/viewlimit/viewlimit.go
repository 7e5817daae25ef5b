// Package viewlimit decides whether a visit should bump a view counter.
// A client is counted at most once per cooldown window per key.
package viewlimit

import "context"

// Limiter reports whether key may be counted now and, if so, starts a new
// cooldown window for it. Denied calls do not extend the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Key builds the limiter key for one target and client.
func Key(target, client string) string {
	return target + "|" + client
}
