package listsync

import (
	"context"
	"sync"
)

// Token identifies one issued list request: the fingerprint of the FilterSet
// it was issued for plus a sequence number so that re-issuing the same
// filters still supersedes the previous request.
type Token struct {
	fingerprint string
	seq         uint64
}

func (t Token) Fingerprint() string { return t.fingerprint }

// Guard enforces last-issued-wins ordering on list fetches. Issuing a request
// cancels the context of the previous one; a response is applied only when
// its token still matches the latest issued request, so a slow response for
// superseded filters can never overwrite state set by a newer one.
type Guard struct {
	mu     sync.Mutex
	seq    uint64
	latest Token
	cancel context.CancelFunc
}

func NewGuard() *Guard { return &Guard{} }

// Issue registers a fetch for the given filters, cancelling any in-flight
// request, and returns the context the fetch must run under.
func (g *Guard) Issue(ctx context.Context, filters FilterSet) (context.Context, Token) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	ctx, g.cancel = context.WithCancel(ctx)

	g.seq++
	g.latest = Token{fingerprint: filters.Fingerprint(), seq: g.seq}
	return ctx, g.latest
}

// ShouldApply reports whether the response for the given token is still
// current. A settled request whose token is stale must be a no-op.
func (g *Guard) ShouldApply(tok Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return tok == g.latest && tok.seq != 0
}

// Close cancels any in-flight request and invalidates all issued tokens.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.latest = Token{}
}
