package whale

import (
	"context"
	"sync"
	"time"

	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/assets"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/model"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/provider"
	"go.uber.org/zap"
)

const (
	// Upper bound on a caller's limit. Protects the provider and local
	// memory from unbounded requests.
	MaxLimit = 1000

	// Fixed maximum row count requested per provider category.
	perCategoryMaxCount = 500
)

// TransferFetcher is the provider surface the service needs. The concrete
// client lives in the provider package; tests substitute a stub.
type TransferFetcher interface {
	FetchTransfers(ctx context.Context, maxCount uint64) []provider.CategoryResult
}

// AlertSink receives the records of each completed fetch cycle. Publishing is
// fire-and-forget: a sink failure never fails a fetch.
type AlertSink interface {
	PublishAlerts(transfers []model.WhaleTransfer)
}

// snapshot is the single cache slot: one fetch cycle's records plus the time
// they were fetched. Replaced wholesale, never patched.
type snapshot struct {
	records   []model.WhaleTransfer
	fetchedAt time.Time
}

// Service is the query entry point over the whale-transfer snapshot cache.
type Service struct {
	fetcher  TransferFetcher
	registry *assets.Registry
	logger   *zap.Logger
	ttl      time.Duration
	sink     AlertSink

	// mu guards the whole read-check-refresh-store sequence so concurrent
	// callers never race to refetch or observe a half-updated snapshot.
	mu   sync.Mutex
	snap *snapshot // nil until the first successful fetch cycle
}

// NewService creates a whale query service around the given provider client.
func NewService(fetcher TransferFetcher, registry *assets.Registry, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		registry: registry,
		logger:   logger,
		ttl:      ttl,
	}
}

// SetAlertSink attaches an optional sink notified after each fetch cycle.
func (s *Service) SetAlertSink(sink AlertSink) {
	s.sink = sink
}

// FetchWhales returns up to limit transfers with amount >= minAmount, newest
// block first. The snapshot is refreshed when stale; the caller's minAmount is
// re-applied over the cached snapshot regardless of the threshold that warmed
// it. Provider failures degrade the result set and never surface as errors.
func (s *Service) FetchWhales(ctx context.Context, limit int, minAmount float64) []model.WhaleTransfer {
	if limit <= 0 {
		return []model.WhaleTransfer{}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap == nil || time.Since(s.snap.fetchedAt) >= s.ttl {
		s.refresh(ctx, limit, minAmount)
	}

	if s.snap == nil {
		return []model.WhaleTransfer{}
	}

	// Post-filter a copy of the cached records; callers never get a
	// reference into cache-owned state.
	filtered := make([]model.WhaleTransfer, 0, len(s.snap.records))
	for _, transfer := range s.snap.records {
		if transfer.Amount >= minAmount {
			filtered = append(filtered, transfer)
		}
	}

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return filtered
}

// refresh runs one fetch cycle and replaces the snapshot. Called with mu held.
// If every category fails, the previous snapshot (if any) keeps serving past
// its nominal TTL rather than being replaced by nothing.
func (s *Service) refresh(ctx context.Context, limit int, minAmount float64) {
	results := s.fetcher.FetchTransfers(ctx, perCategoryMaxCount)

	succeeded := 0
	for _, result := range results {
		if result.Err != nil {
			s.logger.Warn("Provider category query failed",
				zap.String("category", result.Category),
				zap.Error(result.Err))
			continue
		}
		succeeded++
	}

	if succeeded == 0 {
		s.logger.Warn("All provider categories failed, keeping previous snapshot")
		return
	}

	now := time.Now().UTC()
	records := buildSnapshot(results, s.registry, minAmount, limit, now)

	s.snap = &snapshot{
		records:   records,
		fetchedAt: time.Now(),
	}

	s.logger.Info("Refreshed whale transfer snapshot",
		zap.Int("record_count", len(records)),
		zap.Float64("min_amount", minAmount))

	if s.sink != nil && len(records) > 0 {
		published := make([]model.WhaleTransfer, len(records))
		copy(published, records)
		go s.sink.PublishAlerts(published)
	}
}
