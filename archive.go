package main

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// archiveAndUpload snapshots a whole tree into one timestamped tar.gz
// object. Complements the mirror sync: the mirror tracks live state, the
// archive keeps point-in-time copies.
func archiveAndUpload(backupConfig BackupConfig, client BucketClient, notifier Notifier) error {
	scanner := NewTreeScanner(client, &PathKeyMapper{}, AppConfig{SkipChecksum: true})
	manifest, scanErr := scanner.ScanLocal(backupConfig.SourceFolder)
	if scanErr != nil {
		log.Error(fmt.Sprintf("Backup directory walk failed: %s", scanErr))
		return scanErr
	}

	now := time.Now()
	backupTimestamp := now.Format(time.RFC3339)
	keyBase := strings.TrimPrefix(strings.ReplaceAll(backupConfig.SourceFolder, "/", "_"), "_")
	backupPrefix := fmt.Sprintf("%s_%s_*.tar.gz", keyBase, backupTimestamp)
	tarFile, tempErr := os.CreateTemp(os.TempDir(), backupPrefix)
	if tempErr != nil {
		log.Error(fmt.Sprintf("Unable to create backup tarball: %s", tempErr))
		return tempErr
	}
	defer os.Remove(tarFile.Name())

	log.Info(fmt.Sprintf("Creating backup tarball: %s", tarFile.Name()))
	archiveErr := createArchive(backupConfig.SourceFolder, manifest.Paths(), tarFile)
	tarFile.Close()
	if archiveErr != nil {
		log.Error(fmt.Sprintf("Error writing backup tarball: %s", archiveErr))
		return archiveErr
	}

	uploadFile, uploadFileOpenErr := os.Open(tarFile.Name())
	if uploadFileOpenErr != nil {
		log.Warn("Error uploading backup: ", uploadFileOpenErr)
		return uploadFileOpenErr
	}
	defer uploadFile.Close()

	fileKey := filepath.Base(tarFile.Name())
	putErr := client.UploadFile(backupConfig.Bucket, fileKey, uploadFile)
	if putErr != nil {
		log.Warn("Backup upload error: ", putErr)
	} else {
		log.Info("Upload succeeded for ", fileKey)
	}

	if notifier != nil {
		notifier.NotifyBackupResults(backupConfig, uploadFile, putErr)
	}

	return putErr
}

func createArchive(root string, relPaths []string, buf io.Writer) error {
	gw := gzip.NewWriter(buf)
	defer gw.Close()
	tw := tar.NewWriter(gw)
	defer tw.Close()

	for _, relPath := range relPaths {
		if err := addToArchive(tw, root, relPath); err != nil {
			return err
		}
	}

	return nil
}

func addToArchive(tw *tar.Writer, root, relPath string) error {
	file, err := os.Open(filepath.Join(root, relPath))
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, info.Name())
	if err != nil {
		return err
	}

	// archive members keep the tree structure relative to root
	header.Name = filepath.ToSlash(relPath)

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if _, err := io.Copy(tw, file); err != nil {
		return err
	}

	return nil
}
