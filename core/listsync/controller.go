package listsync

import (
	"context"
	"sync"
	"time"

	"github.com/tdkhoa/sodiem/core"
)

// Backend is the resource collaborator a Controller synchronizes against.
// Every call may fail with a structured *core.APIError; the core does not
// interpret it beyond success/failure.
type Backend[T any] interface {
	List(ctx context.Context, filters FilterSet) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, record T) (T, error)
	Delete(ctx context.Context, id string) error
}

type Options struct {
	// SearchFilter is the filter name the debounced free-text search writes
	// to. Leave empty for screens without a search box.
	SearchFilter string

	// SearchDebounce defaults to core.Config.SearchDebounce's default (300ms).
	SearchDebounce time.Duration

	// DependentFilters maps a parent filter to the child filters that are
	// reset to empty when the parent changes.
	DependentFilters map[string][]string

	Logger   core.Logger
	Notifier core.Notifier
}

// Controller owns the synchronization state of one list screen: the record
// store, the active FilterSet, the stale-response guard and the search
// debouncer. Construct one per screen mount and Close it on unmount; it is
// never shared between screens.
type Controller[T any] struct {
	store   *Store[T]
	guard   *Guard
	backend Backend[T]
	log     core.Logger
	notify  core.Notifier

	searchFilter string
	children     map[string][]string
	debounce     *debouncer

	mu      sync.Mutex
	filters FilterSet
	loading bool

	ctx       context.Context
	cancelCtx context.CancelFunc
	wg        sync.WaitGroup
}

func NewController[T any](backend Backend[T], id func(T) string, opts Options) *Controller[T] {
	if opts.SearchDebounce == 0 {
		opts.SearchDebounce = 300 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = core.NopLogger()
	}
	if opts.Notifier == nil {
		opts.Notifier = core.NopNotifier()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller[T]{
		store:        NewStore[T](id),
		guard:        NewGuard(),
		backend:      backend,
		log:          opts.Logger,
		notify:       opts.Notifier,
		searchFilter: opts.SearchFilter,
		children:     opts.DependentFilters,
		debounce:     newDebouncer(opts.SearchDebounce),
		filters:      NewFilterSet(),
		ctx:          ctx,
		cancelCtx:    cancel,
	}
}

func (c *Controller[T]) Store() *Store[T] { return c.store }

func (c *Controller[T]) Records() []T { return c.store.Records() }

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller[T]) Filters() FilterSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Clone()
}

// SetFilter applies a discrete filter selection immediately. Child filters
// that depend on the changed one are reset to empty in the same transition,
// before the fetch for the new value is issued, so no fetch ever carries a
// stale child value.
func (c *Controller[T]) SetFilter(name, value string) {
	c.mu.Lock()
	c.filters.Set(name, value)
	for _, child := range c.children[name] {
		c.filters.Set(child, "")
	}
	filters := c.filters.Clone()
	c.mu.Unlock()

	c.fetch(filters)
}

// SetSearch feeds free-text input; the re-fetch fires only after the input
// has been quiet for the debounce period.
func (c *Controller[T]) SetSearch(query string) {
	if c.searchFilter == "" {
		return
	}
	c.debounce.trigger(func() {
		c.mu.Lock()
		c.filters.Set(c.searchFilter, core.CleanString(query))
		filters := c.filters.Clone()
		c.mu.Unlock()

		c.fetch(filters)
	})
}

// Refresh re-fetches the list for the current FilterSet.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	filters := c.filters.Clone()
	c.mu.Unlock()

	c.fetch(filters)
}

func (c *Controller[T]) fetch(filters FilterSet) {
	ctx, tok := c.guard.Issue(c.ctx, filters)
	c.setLoading(true)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		records, err := c.backend.List(ctx, filters)
		if !c.guard.ShouldApply(tok) {
			// Superseded or torn down; the settlement is a no-op. The fetch
			// that superseded this one owns the loading state now.
			return
		}
		c.setLoading(false)

		if err != nil {
			c.log.Error("list fetch failed", err, map[string]interface{}{"filters": tok.Fingerprint()})
			c.notify.Error(core.UserMessage(err))
			c.store.Replace(nil)
			return
		}
		c.store.Replace(records)
	}()
}

// Create runs the optimistic create protocol: the temp record (synthetic id
// from PendingID) appears immediately, then is reconciled with the server
// record or rolled back with exactly one failure notification.
func (c *Controller[T]) Create(ctx context.Context, temp T) error {
	m, err := c.store.OptimisticCreate(temp)
	if err != nil {
		return err
	}

	server, err := c.backend.Create(ctx, temp)
	if err != nil {
		c.store.Rollback(m)
		c.notify.Error(core.UserMessage(err))
		return err
	}
	c.store.Reconcile(m, server)
	return nil
}

// Update applies the updated record immediately and reconciles or rolls back.
func (c *Controller[T]) Update(ctx context.Context, id string, updated T) error {
	m, err := c.store.OptimisticUpdate(id, func(T) T { return updated })
	if err != nil {
		return err
	}

	server, err := c.backend.Update(ctx, id, updated)
	if err != nil {
		c.store.Rollback(m)
		c.notify.Error(core.UserMessage(err))
		return err
	}
	c.store.Reconcile(m, server)
	return nil
}

// Delete removes the record immediately and restores it on backend failure.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	m, err := c.store.OptimisticDelete(id)
	if err != nil {
		return err
	}

	if err := c.backend.Delete(ctx, id); err != nil {
		c.store.Rollback(m)
		c.notify.Error(core.UserMessage(err))
		return err
	}
	c.store.Settle(m)
	return nil
}

// Close tears the screen down: pending debounces are dropped, in-flight
// fetches are cancelled and their settlement becomes a no-op.
func (c *Controller[T]) Close() {
	c.debounce.stop()
	c.guard.Close()
	c.cancelCtx()
	c.wg.Wait()
}

func (c *Controller[T]) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}
