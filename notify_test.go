package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSNSPublishOnFailures(t *testing.T) {
	mockNotifier := &SNSNotifier{
		Client: NewMockSNSClient(),
		Topic:  "mock-topic",
	}
	summary := &SyncSummary{
		Succeeded: 1,
		Failed:    1,
		Skipped:   2,
		Failures: []TransferResult{
			{RelPath: "sub/b.txt", Action: ActionUpload, Outcome: OutcomeFailed, Attempts: 3, Err: "SlowDown"},
		},
		Duration: 2 * time.Second,
	}
	expectedSubject := "Sync failures: backup /folder1 -> not-real-bucket"
	expectedMessage := `Succeeded: 1
Failed: 1
Skipped: 2

Failures:
  - upload sub/b.txt => SlowDown (attempts: 3)
`

	publishErr := mockNotifier.NotifySyncResults("backup /folder1 -> not-real-bucket", summary)

	assert.Nil(t, publishErr)
	mockClient := mockNotifier.Client.(*MockSNSClient)
	assert.Len(t, mockClient.PublishRequests, 1)
	assert.Equal(t, *mockClient.PublishRequests[0].Subject, expectedSubject)
	assert.Equal(t, *mockClient.PublishRequests[0].Message, expectedMessage)
}

func TestSNSNoPublishWithoutFailures(t *testing.T) {
	mockNotifier := &SNSNotifier{
		Client: NewMockSNSClient(),
		Topic:  "mock-topic",
	}
	summary := &SyncSummary{Succeeded: 3}

	publishErr := mockNotifier.NotifySyncResults("backup /folder1 -> not-real-bucket", summary)

	assert.Nil(t, publishErr)
	mockClient := mockNotifier.Client.(*MockSNSClient)
	assert.Len(t, mockClient.PublishRequests, 0)
}
