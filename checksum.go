package main

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
)

// fileETag computes the md5 hex digest of a local file, matching the etag
// S3 reports for single-part uploads.
func fileETag(path string) (string, error) {
	fd, openErr := os.Open(path)
	if openErr != nil {
		return "", openErr
	}
	defer fd.Close()

	hash := md5.New()
	if _, copyErr := io.Copy(hash, fd); copyErr != nil {
		return "", copyErr
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
