package main

import (
	"os"
	"time"
)

// BucketClient is the capability set the sync engine needs from an object
// store. Concrete adapters exist for S3 and GCS, tests swap in a mock.
type BucketClient interface {
	ListObjects(bucket string, prefix string) (map[string]ObjectInfo, error)
	UploadFile(bucket string, key string, file *os.File) error
	DownloadFile(bucket string, key string, file *os.File) error
	ObjectExists(bucket string, key string) (bool, error)
	DeleteObject(bucket string, key string) error
}

type ObjectInfo struct {
	Size    int64
	ModTime time.Time
	ETag    string
}
