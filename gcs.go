package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

type GCSClient struct {
	Client *storage.Client
}

func NewGCSBucketClient() (BucketClient, error) {
	client, err := storage.NewClient(context.TODO())
	if err != nil {
		return nil, err
	}

	return &GCSClient{Client: client}, nil
}

func (s *GCSClient) ListObjects(bucket, prefix string) (map[string]ObjectInfo, error) {
	objectMap := make(map[string]ObjectInfo)
	var query *storage.Query
	if prefix != "" {
		query = &storage.Query{Prefix: prefix}
	}
	objIter := s.Client.Bucket(bucket).Objects(context.TODO(), query)
	for {
		attrs, err := objIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classifyGCSError(fmt.Errorf("Bucket(%q).Objects: %w", bucket, err))
		}
		objectMap[attrs.Name] = ObjectInfo{
			Size:    attrs.Size,
			ModTime: attrs.Updated,
			ETag:    hex.EncodeToString(attrs.MD5),
		}
	}

	return objectMap, nil
}

func (s *GCSClient) UploadFile(bucket, key string, file *os.File) error {
	object := s.Client.Bucket(bucket).Object(key)
	objWriter := object.NewWriter(context.TODO())
	if _, uploadErr := io.Copy(objWriter, file); uploadErr != nil {
		return classifyGCSError(uploadErr)
	}
	if closeErr := objWriter.Close(); closeErr != nil {
		return classifyGCSError(closeErr)
	}

	return nil
}

func (s *GCSClient) DownloadFile(bucket, key string, file *os.File) error {
	object := s.Client.Bucket(bucket).Object(key)
	objReader, readerErr := object.NewReader(context.TODO())
	if readerErr != nil {
		return classifyGCSError(readerErr)
	}
	defer objReader.Close()

	if _, copyErr := io.Copy(file, objReader); copyErr != nil {
		return classifyGCSError(copyErr)
	}

	return nil
}

func (s *GCSClient) ObjectExists(bucket, key string) (bool, error) {
	_, attrErr := s.Client.Bucket(bucket).Object(key).Attrs(context.TODO())
	if attrErr == storage.ErrObjectNotExist {
		return false, nil
	}
	if attrErr != nil {
		return false, classifyGCSError(attrErr)
	}

	return true, nil
}

func (s *GCSClient) DeleteObject(bucket string, key string) error {
	object := s.Client.Bucket(bucket).Object(key)

	if err := object.Delete(context.TODO()); err != nil {
		return classifyGCSError(err)
	}

	return nil
}

func classifyGCSError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return &PermanentError{Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return &TransientError{Err: err}
		}
		return &PermanentError{Err: err}
	}

	return &TransientError{Err: err}
}
