package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Smartsoil-Media/smartsoil-api/internal/logger"
	"github.com/Smartsoil-Media/smartsoil-api/internal/models"
	"github.com/Smartsoil-Media/smartsoil-api/internal/repository"
)

const reconcileTimeout = 5 * time.Minute

// Scheduler runs the nightly size reconciliation.
//
// The mob size column is a cached projection of the event log. Writes adjust
// it in place, but a crash between the event insert and the size update can
// leave it stale. The reconciler replays each active mob's event log from its
// recorded starting head count and rewrites any cache that drifted.
type Scheduler struct {
	cron      *cron.Cron
	mobs      repository.MobRepository
	mobEvents repository.MobEventRepository
	spec      string
	log       *logger.Logger
}

// New creates a scheduler that runs size reconciliation on the given cron
// spec (standard 5-field syntax).
func New(spec string, mobs repository.MobRepository, mobEvents repository.MobEventRepository, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		mobs:      mobs,
		mobEvents: mobEvents,
		spec:      spec,
		log:       log,
	}
}

// Start registers the reconciliation job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.reconcileSizes); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Scheduler started", map[string]interface{}{
		"reconcile_cron": s.spec,
	})
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped", nil)
}

func (s *Scheduler) reconcileSizes() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	mobs, err := s.mobs.ListActive(ctx)
	if err != nil {
		s.log.Error("Size reconciliation failed to list mobs", err, nil)
		return
	}

	repaired := 0
	for i := range mobs {
		mob := &mobs[i]

		events, err := s.mobEvents.ListByMobID(ctx, mob.ID)
		if err != nil {
			s.log.Error("Size reconciliation failed to list events", err, map[string]interface{}{
				"mob_id": mob.ID.String(),
			})
			continue
		}

		expected := expectedSize(mob.InitialSize, events)
		if expected == mob.Size {
			continue
		}

		if err := s.mobs.SetSize(ctx, mob.ID, expected); err != nil {
			s.log.Error("Size reconciliation failed to repair mob", err, map[string]interface{}{
				"mob_id": mob.ID.String(),
			})
			continue
		}

		s.log.Warn("Repaired drifted mob size", map[string]interface{}{
			"mob_id":   mob.ID.String(),
			"cached":   mob.Size,
			"expected": expected,
		})
		repaired++
	}

	s.log.Info("Size reconciliation complete", map[string]interface{}{
		"mobs":     len(mobs),
		"repaired": repaired,
	})
}

// expectedSize replays a mob's event log from its recorded starting head
// count. Unlike the population chart this includes purchases, because the
// cache tracks the real head count rather than the natural-increase view.
func expectedSize(initial int, events []models.MobEvent) int {
	size := initial
	for i := range events {
		size += events[i].SizeDelta()
	}
	if size < 0 {
		return 0
	}
	return size
}
