package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Direction int

const (
	DirectionBackup Direction = iota
	DirectionRestore
)

func (d Direction) String() string {
	if d == DirectionRestore {
		return "restore"
	}
	return "backup"
}

type Action int

const (
	ActionUpload Action = iota
	ActionDownload
	ActionDeleteObject
	ActionRemoveFile
)

func (a Action) String() string {
	switch a {
	case ActionUpload:
		return "upload"
	case ActionDownload:
		return "download"
	case ActionDeleteObject:
		return "delete object"
	case ActionRemoveFile:
		return "remove file"
	}
	return "unknown"
}

type TaskReason int

const (
	ReasonNew TaskReason = iota
	ReasonModified
	ReasonStale
)

func (r TaskReason) String() string {
	switch r {
	case ReasonNew:
		return "new"
	case ReasonModified:
		return "modified"
	case ReasonStale:
		return "stale"
	}
	return "unknown"
}

// TransferTask is one planned unit of work for a single relative path.
type TransferTask struct {
	RelPath string
	Action  Action
	Reason  TaskReason
}

// TransferPlan is the diff output: tasks to run, paths already in sync, and
// destination-only paths. Deletes stays empty unless destructive mode was
// explicitly enabled.
type TransferPlan struct {
	Tasks     []TransferTask
	Unchanged []string
	Stale     []string
	Deletes   []TransferTask
}

type DiffOptions struct {
	SkewTolerance time.Duration
	Destructive   bool
}

// BuildPlan compares the source manifest against the destination and decides
// what has to move. Task order follows sorted paths so two runs over the
// same trees log identically.
func BuildPlan(source, dest Manifest, direction Direction, opts DiffOptions) TransferPlan {
	transferAction := ActionUpload
	deleteAction := ActionDeleteObject
	if direction == DirectionRestore {
		transferAction = ActionDownload
		deleteAction = ActionRemoveFile
	}

	plan := TransferPlan{}
	for _, relPath := range source.Paths() {
		sourceEntry := source[relPath]
		destEntry, ok := dest[relPath]
		if !ok {
			plan.Tasks = append(plan.Tasks, TransferTask{RelPath: relPath, Action: transferAction, Reason: ReasonNew})
			continue
		}
		if entriesMatch(sourceEntry, destEntry, opts.SkewTolerance) {
			log.Debug(fmt.Sprintf("%s is in sync, no action required", relPath))
			plan.Unchanged = append(plan.Unchanged, relPath)
		} else {
			log.Info(fmt.Sprintf("%s has been modified, will %s", relPath, transferAction))
			plan.Tasks = append(plan.Tasks, TransferTask{RelPath: relPath, Action: transferAction, Reason: ReasonModified})
		}
	}

	for _, relPath := range dest.Paths() {
		if _, ok := source[relPath]; ok {
			continue
		}
		plan.Stale = append(plan.Stale, relPath)
		if opts.Destructive {
			plan.Deletes = append(plan.Deletes, TransferTask{RelPath: relPath, Action: deleteAction, Reason: ReasonStale})
		}
	}

	return plan
}

// entriesMatch decides equivalence. Matching md5 etags on both sides settle
// it outright. Otherwise sizes must match and the destination copy must be
// at least as recent as the source, minus a tolerance since bucket and
// filesystem clocks are not the same clock.
func entriesMatch(source, dest ManifestEntry, skewTolerance time.Duration) bool {
	if source.ETag != "" && dest.ETag != "" {
		return source.ETag == dest.ETag
	}
	if source.Size != dest.Size {
		return false
	}

	return !dest.ModTime.Before(source.ModTime.Add(-skewTolerance))
}
