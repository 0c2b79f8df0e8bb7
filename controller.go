package main

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SyncSummary is the final accounting for one run. Immutable once returned.
type SyncSummary struct {
	Succeeded int
	Failed    int
	Skipped   int
	Failures  []TransferResult
	Duration  time.Duration
}

func (s *SyncSummary) String() string {
	return fmt.Sprintf("%d succeeded, %d failed, %d skipped in %s", s.Succeeded, s.Failed, s.Skipped, s.Duration)
}

// SyncController drives one run end to end: scan both sides, diff, execute
// the plan, summarize. Scan failures abort the run. Transfer failures do
// not, they land in the summary.
type SyncController struct {
	client   BucketClient
	mapper   *PathKeyMapper
	scanner  *TreeScanner
	notifier Notifier
	cfg      AppConfig
}

func NewSyncController(client BucketClient, notifier Notifier, appConfig AppConfig) *SyncController {
	mapper := &PathKeyMapper{Prefix: appConfig.KeyPrefix}

	return &SyncController{
		client:   client,
		mapper:   mapper,
		scanner:  NewTreeScanner(client, mapper, appConfig),
		notifier: notifier,
		cfg:      appConfig,
	}
}

func (c *SyncController) Backup(ctx context.Context, dir, bucket string) (*SyncSummary, error) {
	return c.run(ctx, dir, bucket, DirectionBackup)
}

func (c *SyncController) Restore(ctx context.Context, bucket, dir string) (*SyncSummary, error) {
	return c.run(ctx, dir, bucket, DirectionRestore)
}

func (c *SyncController) run(ctx context.Context, dir, bucket string, direction Direction) (*SyncSummary, error) {
	startTime := time.Now()
	log.Info(fmt.Sprintf("%s starting: %s <-> bucket %s", direction, dir, bucket))

	// restore may target a directory that does not exist yet
	if direction == DirectionRestore {
		if mkdirErr := os.MkdirAll(dir, 0o755); mkdirErr != nil {
			return nil, &ScanError{Side: "local", Err: mkdirErr}
		}
	}

	// the two sides are independent reads, scan them concurrently
	var localManifest, remoteManifest Manifest
	var group errgroup.Group
	group.Go(func() error {
		var scanErr error
		localManifest, scanErr = c.scanner.ScanLocal(dir)
		return scanErr
	})
	group.Go(func() error {
		var scanErr error
		remoteManifest, scanErr = c.scanner.ScanRemote(bucket)
		return scanErr
	})
	if scanErr := group.Wait(); scanErr != nil {
		log.Error(fmt.Sprintf("%s aborted: %s", direction, scanErr))
		return nil, scanErr
	}
	log.Info(fmt.Sprintf("scanned %d local file(s), %d remote object(s)", len(localManifest), len(remoteManifest)))

	source, dest := localManifest, remoteManifest
	if direction == DirectionRestore {
		source, dest = remoteManifest, localManifest
	}
	plan := BuildPlan(source, dest, direction, DiffOptions{
		SkewTolerance: time.Duration(c.cfg.SkewToleranceSeconds) * time.Second,
		Destructive:   c.cfg.Destructive,
	})
	log.Info(fmt.Sprintf("plan: %d transfer(s), %d unchanged, %d stale, %d delete(s)",
		len(plan.Tasks), len(plan.Unchanged), len(plan.Stale), len(plan.Deletes)))

	orchestrator := NewTransferOrchestrator(c.client, c.mapper, bucket, dir, c.cfg)
	results := orchestrator.Run(ctx, plan)

	summary := summarize(results, len(plan.Unchanged), time.Since(startTime))
	log.Info(fmt.Sprintf("%s complete for %s: %s", direction, dir, summary))

	if c.notifier != nil && summary.Failed > 0 {
		job := fmt.Sprintf("%s %s -> %s", direction, dir, bucket)
		if direction == DirectionRestore {
			job = fmt.Sprintf("%s %s -> %s", direction, bucket, dir)
		}
		if notifyErr := c.notifier.NotifySyncResults(job, summary); notifyErr != nil {
			log.Warn(fmt.Sprintf("failed to publish summary notification: %s", notifyErr))
		}
	}

	return summary, nil
}

func summarize(results []TransferResult, unchanged int, duration time.Duration) *SyncSummary {
	summary := &SyncSummary{
		Skipped:  unchanged,
		Duration: duration,
	}
	for _, result := range results {
		switch result.Outcome {
		case OutcomeSucceeded:
			summary.Succeeded++
		case OutcomeFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, result)
		case OutcomeSkipped:
			summary.Skipped++
		}
	}

	return summary
}
