package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/medquizai/medquiz-backend/internal/config"
	"github.com/medquizai/medquiz-backend/internal/model"
	"github.com/medquizai/medquiz-backend/internal/store"
)

// SweepInterval is how often expired authorization records are collected.
// One minute matches the countdown contract: expiry is detected within a
// minute even when no client is connected.
const SweepInterval = 1 * time.Minute

// ExpiryWorker purges expired and malformed authorization records from the
// store. Its only side effect is record removal; it never writes records.
type ExpiryWorker struct {
	store           store.Store
	sessionDuration time.Duration
	log             zerolog.Logger
}

// NewExpiryWorker creates an ExpiryWorker.
func NewExpiryWorker(st store.Store, sessionDuration time.Duration, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		store:           st,
		sessionDuration: sessionDuration,
		log:             log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start runs the sweep loop until the context is cancelled.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ExpiryWorker started")

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("ExpiryWorker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep scans all authorization records and removes the expired and the
// unparsable ones. Scan or read failures abort the pass; the next tick
// retries from scratch.
func (w *ExpiryWorker) Sweep(ctx context.Context) {
	keys, err := w.store.Scan(ctx, config.StoreKey.AuthRecordPattern())
	if err != nil {
		w.log.Warn().Err(err).Msg("Record scan failed")
		return
	}

	removed := 0
	now := time.Now().UnixMilli()

	for _, key := range keys {
		raw, ok, err := w.store.Get(ctx, key)
		if err != nil || !ok {
			continue
		}

		var record model.AuthorizationRecord
		stale := json.Unmarshal([]byte(raw), &record) != nil ||
			record.Status != model.AuthStatusGranted ||
			now >= record.Timestamp+w.sessionDuration.Milliseconds()

		if !stale {
			continue
		}
		if err := w.store.Remove(ctx, key); err != nil {
			w.log.Warn().Err(err).Str("key", key).Msg("Record removal failed")
			continue
		}
		removed++
	}

	if removed > 0 {
		w.log.Info().Int("removed", removed).Msg("Expired sessions purged")
	}
}
