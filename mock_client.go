package main

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type MockRequest struct {
	Bucket string
	Key    string
}

type mockFailure struct {
	err   error
	times int
}

// MockBucketClient is an in-memory BucketClient. It records every request
// and can inject failures per key, so tests can exercise retry and
// partial-failure paths. Safe for concurrent use since the orchestrator
// hits it from multiple workers.
type MockBucketClient struct {
	objects  map[string]ObjectInfo
	contents map[string][]byte
	failures map[string]*mockFailure
	listErr  error

	UploadRequests   []MockRequest
	DownloadRequests []MockRequest
	DeleteRequests   []MockRequest
	HeadRequests     []MockRequest

	lock sync.Mutex
}

func NewMockBucketClient(objects map[string]ObjectInfo) *MockBucketClient {
	mockObjects := make(map[string]ObjectInfo)
	for key, info := range objects {
		mockObjects[key] = info
	}

	return &MockBucketClient{
		objects:  mockObjects,
		contents: make(map[string][]byte),
		failures: make(map[string]*mockFailure),
	}
}

// SetContents stores an object body and a matching listing entry.
func (m *MockBucketClient) SetContents(key string, body []byte) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.contents[key] = body
	digest := md5.Sum(body)
	m.objects[key] = ObjectInfo{
		Size:    int64(len(body)),
		ModTime: time.Now(),
		ETag:    hex.EncodeToString(digest[:]),
	}
}

// FailKey makes the next `times` operations on key return failErr.
// times <= 0 means every operation fails.
func (m *MockBucketClient) FailKey(key string, failErr error, times int) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.failures[key] = &mockFailure{err: failErr, times: times}
}

func (m *MockBucketClient) FailListObjects(listErr error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.listErr = listErr
}

// Objects returns a copy of the current listing.
func (m *MockBucketClient) Objects() map[string]ObjectInfo {
	m.lock.Lock()
	defer m.lock.Unlock()
	snapshot := make(map[string]ObjectInfo)
	for key, info := range m.objects {
		snapshot[key] = info
	}

	return snapshot
}

func (m *MockBucketClient) takeFailure(key string) error {
	failure, ok := m.failures[key]
	if !ok {
		return nil
	}
	if failure.times > 0 {
		failure.times--
		if failure.times == 0 {
			delete(m.failures, key)
		}
	}

	return failure.err
}

func (m *MockBucketClient) ListObjects(bucket, prefix string) (map[string]ObjectInfo, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}

	listed := make(map[string]ObjectInfo)
	for key, info := range m.objects {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		listed[key] = info
	}

	return listed, nil
}

func (m *MockBucketClient) UploadFile(bucket, key string, file *os.File) error {
	body, readErr := io.ReadAll(file)
	if readErr != nil {
		return readErr
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.UploadRequests = append(m.UploadRequests, MockRequest{Bucket: bucket, Key: key})
	if failErr := m.takeFailure(key); failErr != nil {
		return failErr
	}

	m.contents[key] = body
	digest := md5.Sum(body)
	m.objects[key] = ObjectInfo{
		Size:    int64(len(body)),
		ModTime: time.Now(),
		ETag:    hex.EncodeToString(digest[:]),
	}

	return nil
}

func (m *MockBucketClient) DownloadFile(bucket, key string, file *os.File) error {
	m.lock.Lock()
	m.DownloadRequests = append(m.DownloadRequests, MockRequest{Bucket: bucket, Key: key})
	if failErr := m.takeFailure(key); failErr != nil {
		m.lock.Unlock()
		return failErr
	}
	body, ok := m.contents[key]
	m.lock.Unlock()
	if !ok {
		return &PermanentError{Err: fmt.Errorf("no such key: %s", key)}
	}

	_, writeErr := file.Write(body)

	return writeErr
}

func (m *MockBucketClient) ObjectExists(bucket, key string) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.HeadRequests = append(m.HeadRequests, MockRequest{Bucket: bucket, Key: key})
	_, ok := m.objects[key]

	return ok, nil
}

func (m *MockBucketClient) DeleteObject(bucket string, key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.DeleteRequests = append(m.DeleteRequests, MockRequest{Bucket: bucket, Key: key})
	if failErr := m.takeFailure(key); failErr != nil {
		return failErr
	}
	delete(m.objects, key)
	delete(m.contents, key)

	return nil
}
