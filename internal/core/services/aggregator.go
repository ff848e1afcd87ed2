package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-unified/internal/logger"
)

// Ensure Aggregator implements the interface.
var _ driving.UnifiedSearchService = (*Aggregator)(nil)

var aggLog = logger.For("aggregator")

// Aggregator fans a query out to connected providers and merges the
// answers into one ranked list.
type Aggregator struct {
	adapters   map[domain.SourceName]driven.ProviderAdapter
	cache      driven.ResultCache
	classifier *IntentClassifier
	scorer     *Scorer
	searchLog  driven.SearchLogStore
	now        func() time.Time
	newID      func() string

	mu       sync.RWMutex
	settings domain.AggregatorSettings
}

// NewAggregator creates an aggregator over the given adapters.
// Adapters for unrecognised sources are ignored; a later adapter for the
// same source replaces an earlier one. The cache is required.
func NewAggregator(
	adapters []driven.ProviderAdapter,
	cache driven.ResultCache,
	settings domain.AggregatorSettings,
) *Aggregator {
	byName := make(map[domain.SourceName]driven.ProviderAdapter, len(adapters))
	for _, a := range adapters {
		if a == nil {
			continue
		}
		if _, ok := domain.ParseSourceName(string(a.Source())); !ok {
			aggLog.Warn("ignoring adapter for unknown source %q", a.Source())
			continue
		}
		byName[a.Source()] = a
	}

	a := &Aggregator{
		adapters:   byName,
		cache:      cache,
		classifier: NewIntentClassifier(nil),
		scorer:     NewScorer(),
		now:        time.Now,
		newID:      uuid.NewString,
		settings:   normaliseSettings(settings),
	}
	a.applyPageSize(a.settings.MaxResultsPerProvider)
	return a
}

// SetSearchLogStore enables search history recording.
func (a *Aggregator) SetSearchLogStore(store driven.SearchLogStore) {
	a.searchLog = store
}

// SetClock replaces the clock used for timestamps and recency scoring.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
	a.scorer.Now = now
}

// SetClassifier replaces the intent classifier.
func (a *Aggregator) SetClassifier(c *IntentClassifier) {
	a.classifier = c
}

// SetScorer replaces the relevance scorer.
func (a *Aggregator) SetScorer(s *Scorer) {
	a.scorer = s
}

// SetIDGenerator replaces the request id generator. Useful for testing.
func (a *Aggregator) SetIDGenerator(gen func() string) {
	a.newID = gen
}

// SetSettings swaps the aggregator settings. Safe to call while searching.
func (a *Aggregator) SetSettings(settings domain.AggregatorSettings) {
	settings = normaliseSettings(settings)
	a.mu.Lock()
	a.settings = settings
	a.mu.Unlock()
	a.applyPageSize(settings.MaxResultsPerProvider)
}

// applyPageSize forwards the per-provider page size to adapters that accept it.
func (a *Aggregator) applyPageSize(n int) {
	for _, adapter := range a.adapters {
		if ps, ok := adapter.(driven.PageSizer); ok {
			ps.SetPageSize(n)
		}
	}
}

// Settings returns the current aggregator settings.
func (a *Aggregator) Settings() domain.AggregatorSettings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

// Sources returns the sources that have an adapter, in priority order.
func (a *Aggregator) Sources() []domain.SourceName {
	sources := make([]domain.SourceName, 0, len(a.adapters))
	for name := range a.adapters {
		sources = append(sources, name)
	}
	domain.SortByPriority(sources)
	return sources
}

// Search runs one unified search.
// Provider failures never produce an error; they degrade the result set.
// An error wrapping domain.ErrSearchFailed is returned only when the
// aggregation itself cannot run.
func (a *Aggregator) Search(ctx context.Context, q domain.SearchQuery) (set domain.RankedResultSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			aggLog.Error("aggregation aborted for query %q: %v", q.Raw, r)
			set = domain.RankedResultSet{}
			err = fmt.Errorf("%w: internal error", domain.ErrSearchFailed)
		}
	}()

	started := time.Now()
	query := strings.TrimSpace(q.Raw)
	connected := a.searchable(q)

	logger.Section("Unified Search")
	aggLog.Debug("query=%q connected=%v", query, connected)

	if query == "" || len(connected) == 0 {
		empty := domain.EmptyResultSet(query, a.now())
		empty.RequestID = a.newID()
		return empty, nil
	}

	if err := ctx.Err(); err != nil {
		aggLog.Error("search for %q not started: %v", query, err)
		return domain.RankedResultSet{}, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	settings := a.Settings()
	key := CacheKey(query, connected, q.Credentials)

	if cached, ok := a.cache.Get(key); ok {
		aggLog.Debug("cache hit for %q", key)
		cached.RequestID = a.newID()
		cached.CacheHit = true
		a.record(ctx, cached, time.Since(started))
		return cached, nil
	}

	intent := a.classifier.Classify(query)
	targets := a.selectTargets(intent, connected, settings)
	aggLog.Debug("intent=%s targets=%v", intent, targets)

	outcomes := a.dispatch(ctx, query, targets, q.Credentials, settings.ProviderTimeout)
	set = a.assemble(query, intent, outcomes, settings)

	if !set.Degraded {
		a.cache.Set(key, set)
	}

	a.record(ctx, set, time.Since(started))
	return set, nil
}

// searchable returns connected sources that have an adapter, sorted by name.
func (a *Aggregator) searchable(q domain.SearchQuery) []domain.SourceName {
	connected := q.ConnectedSources()
	out := connected[:0]
	for _, name := range connected {
		if _, ok := a.adapters[name]; !ok {
			aggLog.Debug("no adapter for connected source %s", name)
			continue
		}
		out = append(out, name)
	}
	return out
}

// selectTargets applies intent routing and returns sources in dispatch order.
func (a *Aggregator) selectTargets(
	intent domain.Intent, connected []domain.SourceName, settings domain.AggregatorSettings,
) []domain.SourceName {
	targets := make([]domain.SourceName, 0, len(connected))
	for _, name := range connected {
		if intent.Selects(name) {
			targets = append(targets, name)
		}
	}

	if len(targets) == 0 && settings.BroadenUnconnectedIntent {
		aggLog.Debug("intent %s is not connected, searching all connected sources", intent)
		targets = append(targets, connected...)
	}

	domain.SortByPriority(targets)
	return targets
}

// dispatch calls every target concurrently. Each task writes only its own slot.
func (a *Aggregator) dispatch(
	ctx context.Context,
	query string,
	targets []domain.SourceName,
	creds map[domain.SourceName]domain.Credentials,
	timeout time.Duration,
) []domain.ProviderOutcome {
	outcomes := make([]domain.ProviderOutcome, len(targets))

	var g errgroup.Group
	for i, source := range targets {
		adapter := a.adapters[source]
		g.Go(func() error {
			outcomes[i] = a.call(ctx, adapter, query, creds[source], timeout)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

type adapterReply struct {
	result domain.AdapterResult
	err    error
}

// call runs one adapter under its own deadline. A hung adapter is abandoned
// once the deadline passes; a panicking adapter becomes a transport failure.
func (a *Aggregator) call(
	ctx context.Context,
	adapter driven.ProviderAdapter,
	query string,
	creds domain.Credentials,
	timeout time.Duration,
) domain.ProviderOutcome {
	source := adapter.Source()
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	done := make(chan adapterReply, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- adapterReply{err: domain.NewProviderError(source, domain.ProviderErrorTransport,
					fmt.Errorf("adapter panic: %v", r))}
			}
		}()
		result, err := adapter.Search(callCtx, query, creds)
		done <- adapterReply{result: result, err: err}
	}()

	var reply adapterReply
	select {
	case reply = <-done:
	case <-callCtx.Done():
		reply.err = callCtx.Err()
	}

	outcome := domain.ProviderOutcome{Source: source, Duration: time.Since(started)}
	if reply.err != nil {
		outcome.Err = asProviderError(source, reply.err)
		aggLog.Warn("%s failed after %v: %v", source, outcome.Duration, outcome.Err)
		return outcome
	}

	outcome.Result = reply.result
	aggLog.Debug("%s returned %d items in %v", source, len(reply.result.Items), outcome.Duration)
	return outcome
}

// asProviderError normalises any adapter failure into a *domain.ProviderError.
func asProviderError(source domain.SourceName, err error) error {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewProviderError(source, domain.ProviderErrorTimeout, err)
	}
	return domain.NewProviderError(source, domain.ProviderErrorTransport, err)
}

// assemble flattens successful outcomes, scores and sorts them, and
// records degraded sources.
func (a *Aggregator) assemble(
	query string,
	intent domain.Intent,
	outcomes []domain.ProviderOutcome,
	settings domain.AggregatorSettings,
) domain.RankedResultSet {
	keywords := ExtractKeywords(query)
	ranked := make([]domain.RankedItem, 0)
	sources := make([]domain.SourceName, 0, len(outcomes))
	var degraded []domain.DegradedSource

	for _, o := range outcomes {
		if o.Failed() {
			d := domain.DegradedSource{
				Source: o.Source,
				Label:  demoLabel + " " + o.Source.DisplayName(),
				Reason: degradedReason(o.Err),
			}
			if settings.IncludePlaceholders {
				d.Placeholder = PlaceholderItems(o.Source, query)
			}
			degraded = append(degraded, d)
			continue
		}

		sources = append(sources, o.Source)
		for _, item := range o.Result.Items {
			if item.Source == "" {
				item.Source = o.Source
			}
			ranked = append(ranked, domain.RankedItem{
				ResultItem: item,
				Relevance:  a.scorer.Score(item, query, keywords),
			})
		}
	}

	// Stable: equal scores keep dispatch order, then provider order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})

	set := domain.RankedResultSet{
		RequestID: a.newID(),
		Query:     query,
		Intent:    intent,
		Results:   ranked,
		Total:     len(ranked),
		Sources:   sources,
		Timestamp: a.now(),
	}
	if len(degraded) > 0 {
		set.Degraded = true
		set.DegradedSources = degraded
		set.Message = degradedMessage(degraded, len(sources))
		aggLog.Warn("degraded search for %q: %s", query, set.Message)
	}
	return set
}

// record appends the search to history. Failures are logged only.
func (a *Aggregator) record(ctx context.Context, set domain.RankedResultSet, elapsed time.Duration) {
	if a.searchLog == nil {
		return
	}
	entry := domain.SearchLogEntry{
		ID:        set.RequestID,
		Query:     set.Query,
		Intent:    set.Intent,
		Sources:   set.Sources,
		Total:     set.Total,
		Degraded:  set.Degraded,
		CacheHit:  set.CacheHit,
		Duration:  elapsed,
		CreatedAt: a.now(),
	}
	if err := a.searchLog.Record(context.WithoutCancel(ctx), entry); err != nil {
		aggLog.Warn("record search %s: %v", entry.ID, err)
	}
}

// normaliseSettings fills zero fields with defaults.
func normaliseSettings(s domain.AggregatorSettings) domain.AggregatorSettings {
	defaults := domain.DefaultAggregatorSettings()
	if s.ProviderTimeout <= 0 {
		s.ProviderTimeout = defaults.ProviderTimeout
	}
	if s.CacheTTL <= 0 {
		s.CacheTTL = defaults.CacheTTL
	}
	if s.MaxResultsPerProvider <= 0 {
		s.MaxResultsPerProvider = defaults.MaxResultsPerProvider
	}
	return s
}
