package main

import (
	"os"
)

type Notifier interface {
	NotifySyncResults(job string, summary *SyncSummary) error
	NotifyBackupResults(backupConfig BackupConfig, backupFile *os.File, backupErr error) error
}
