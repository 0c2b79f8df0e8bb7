package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanNewFilesUploaded(t *testing.T) {
	now := time.Now()
	source := Manifest{
		"a.txt":     {RelPath: "a.txt", Size: 5, ModTime: now},
		"sub/b.txt": {RelPath: "sub/b.txt", Size: 5, ModTime: now},
	}
	dest := Manifest{}

	plan := BuildPlan(source, dest, DirectionBackup, DiffOptions{})

	assert.Len(t, plan.Tasks, 2)
	for _, task := range plan.Tasks {
		assert.Equal(t, ActionUpload, task.Action)
		assert.Equal(t, ReasonNew, task.Reason)
	}
	assert.Len(t, plan.Unchanged, 0)
	assert.Len(t, plan.Stale, 0)
	assert.Len(t, plan.Deletes, 0)
}

func TestPlanRestoreUsesDownloads(t *testing.T) {
	source := Manifest{
		"a.txt": {RelPath: "a.txt", Size: 5, ModTime: time.Now()},
	}

	plan := BuildPlan(source, Manifest{}, DirectionRestore, DiffOptions{})

	assert.Len(t, plan.Tasks, 1)
	assert.Equal(t, ActionDownload, plan.Tasks[0].Action)
}

func TestPlanIdenticalManifestsIdempotent(t *testing.T) {
	now := time.Now()
	source := Manifest{
		"a.txt":     {RelPath: "a.txt", Size: 5, ModTime: now, ETag: "aaa"},
		"sub/b.txt": {RelPath: "sub/b.txt", Size: 5, ModTime: now, ETag: "bbb"},
	}
	dest := Manifest{
		"a.txt":     {RelPath: "a.txt", Size: 5, ModTime: now, ETag: "aaa"},
		"sub/b.txt": {RelPath: "sub/b.txt", Size: 5, ModTime: now, ETag: "bbb"},
	}

	plan := BuildPlan(source, dest, DirectionBackup, DiffOptions{})

	assert.Len(t, plan.Tasks, 0)
	assert.Len(t, plan.Unchanged, 2)
}

func TestPlanModifiedOneOfTwo(t *testing.T) {
	now := time.Now()
	source := Manifest{
		"a.txt":     {RelPath: "a.txt", Size: 5, ModTime: now, ETag: "aaa"},
		"sub/b.txt": {RelPath: "sub/b.txt", Size: 6, ModTime: now, ETag: "changed"},
	}
	dest := Manifest{
		"a.txt":     {RelPath: "a.txt", Size: 5, ModTime: now, ETag: "aaa"},
		"sub/b.txt": {RelPath: "sub/b.txt", Size: 5, ModTime: now, ETag: "bbb"},
	}

	plan := BuildPlan(source, dest, DirectionBackup, DiffOptions{})

	assert.Len(t, plan.Tasks, 1)
	assert.Equal(t, "sub/b.txt", plan.Tasks[0].RelPath)
	assert.Equal(t, ReasonModified, plan.Tasks[0].Reason)
	assert.Len(t, plan.Unchanged, 1)
}

func TestPlanETagPreferredOverTimestamps(t *testing.T) {
	now := time.Now()

	// same content, wildly different timestamps: in sync
	source := Manifest{"a.txt": {RelPath: "a.txt", Size: 5, ModTime: now, ETag: "aaa"}}
	dest := Manifest{"a.txt": {RelPath: "a.txt", Size: 5, ModTime: now.Add(-24 * time.Hour), ETag: "aaa"}}
	plan := BuildPlan(source, dest, DirectionBackup, DiffOptions{})
	assert.Len(t, plan.Tasks, 0)

	// same size and timestamp, different content: modified
	source = Manifest{"a.txt": {RelPath: "a.txt", Size: 5, ModTime: now, ETag: "aaa"}}
	dest = Manifest{"a.txt": {RelPath: "a.txt", Size: 5, ModTime: now, ETag: "bbb"}}
	plan = BuildPlan(source, dest, DirectionBackup, DiffOptions{})
	assert.Len(t, plan.Tasks, 1)
}

func TestPlanFallsBackToSizeAndTime(t *testing.T) {
	now := time.Now()

	// no etags, dest older than source: modified
	source := Manifest{"a.txt": {RelPath: "a.txt", Size: 5, ModTime: now}}
	dest := Manifest{"a.txt": {RelPath: "a.txt", Size: 5, ModTime: now.Add(-1 * time.Hour)}}
	plan := BuildPlan(source, dest, DirectionBackup, DiffOptions{})
	assert.Len(t, plan.Tasks, 1)

	// no etags, dest newer than source: in sync
	dest = Manifest{"a.txt": {RelPath: "a.txt", Size: 5, ModTime: now.Add(1 * time.Hour)}}
	plan = BuildPlan(source, dest, DirectionBackup, DiffOptions{})
	assert.Len(t, plan.Tasks, 0)

	// sizes differ: modified regardless of timestamps
	dest = Manifest{"a.txt": {RelPath: "a.txt", Size: 9, ModTime: now.Add(1 * time.Hour)}}
	plan = BuildPlan(source, dest, DirectionBackup, DiffOptions{})
	assert.Len(t, plan.Tasks, 1)
}

func TestPlanSkewToleranceAbsorbsClockDrift(t *testing.T) {
	now := time.Now()
	source := Manifest{"a.txt": {RelPath: "a.txt", Size: 5, ModTime: now}}
	dest := Manifest{"a.txt": {RelPath: "a.txt", Size: 5, ModTime: now.Add(-500 * time.Millisecond)}}

	plan := BuildPlan(source, dest, DirectionBackup, DiffOptions{SkewTolerance: 1 * time.Second})

	assert.Len(t, plan.Tasks, 0)
	assert.Len(t, plan.Unchanged, 1)
}

func TestPlanStaleNonDestructiveByDefault(t *testing.T) {
	dest := Manifest{
		"gone.txt": {RelPath: "gone.txt", Size: 5, ModTime: time.Now()},
	}

	plan := BuildPlan(Manifest{}, dest, DirectionBackup, DiffOptions{})

	assert.Len(t, plan.Stale, 1)
	assert.Contains(t, plan.Stale, "gone.txt")
	assert.Len(t, plan.Deletes, 0)
}

func TestPlanStaleDestructiveOptIn(t *testing.T) {
	dest := Manifest{
		"gone.txt": {RelPath: "gone.txt", Size: 5, ModTime: time.Now()},
	}

	plan := BuildPlan(Manifest{}, dest, DirectionBackup, DiffOptions{Destructive: true})

	assert.Len(t, plan.Deletes, 1)
	assert.Equal(t, ActionDeleteObject, plan.Deletes[0].Action)
	assert.Equal(t, ReasonStale, plan.Deletes[0].Reason)

	plan = BuildPlan(Manifest{}, dest, DirectionRestore, DiffOptions{Destructive: true})
	assert.Equal(t, ActionRemoveFile, plan.Deletes[0].Action)
}

func TestPlanTaskOrderIsStable(t *testing.T) {
	now := time.Now()
	source := Manifest{
		"z.txt": {RelPath: "z.txt", Size: 1, ModTime: now},
		"a.txt": {RelPath: "a.txt", Size: 1, ModTime: now},
		"m.txt": {RelPath: "m.txt", Size: 1, ModTime: now},
	}

	plan := BuildPlan(source, Manifest{}, DirectionBackup, DiffOptions{})

	assert.Equal(t, "a.txt", plan.Tasks[0].RelPath)
	assert.Equal(t, "m.txt", plan.Tasks[1].RelPath)
	assert.Equal(t, "z.txt", plan.Tasks[2].RelPath)
}
