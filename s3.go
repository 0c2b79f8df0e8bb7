package main

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type S3Client struct {
	Client *s3.Client
}

func NewS3BucketClient(appConfig AppConfig) (BucketClient, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithSharedConfigProfile(appConfig.Profile),
		config.WithRegion(appConfig.Region))
	if err != nil {
		return nil, err
	}

	return &S3Client{Client: s3.NewFromConfig(cfg)}, nil
}

func (s *S3Client) ListObjects(bucket, prefix string) (map[string]ObjectInfo, error) {
	bucketFiles := make(map[string]ObjectInfo)
	listParams := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		listParams.Prefix = aws.String(prefix)
	}
	paginator := s3.NewListObjectsV2Paginator(s.Client, listParams, func(o *s3.ListObjectsV2PaginatorOptions) {})
	for paginator.HasMorePages() {
		currentPage, pageErr := paginator.NextPage(context.TODO())
		if pageErr != nil {
			return nil, classifyS3Error(pageErr)
		}
		for _, object := range currentPage.Contents {
			info := ObjectInfo{Size: object.Size}
			if object.LastModified != nil {
				info.ModTime = *object.LastModified
			}
			if object.ETag != nil {
				info.ETag = strings.Trim(*object.ETag, "\"")
			}
			bucketFiles[*object.Key] = info
		}
	}

	return bucketFiles, nil
}

func (s *S3Client) UploadFile(bucket, key string, file *os.File) error {
	uploader := manager.NewUploader(s.Client)
	_, putErr := uploader.Upload(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	})

	return classifyS3Error(putErr)
}

func (s *S3Client) DownloadFile(bucket, key string, file *os.File) error {
	downloader := manager.NewDownloader(s.Client)
	_, getErr := downloader.Download(context.TODO(), file, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})

	return classifyS3Error(getErr)
}

func (s *S3Client) ObjectExists(bucket, key string) (bool, error) {
	_, headErr := s.Client.HeadObject(context.TODO(), &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if headErr != nil {
		var apiErr smithy.APIError
		if errors.As(headErr, &apiErr) {
			switch apiErr.ErrorCode() {
			case "NotFound", "NoSuchKey":
				return false, nil
			}
		}
		return false, classifyS3Error(headErr)
	}

	return true, nil
}

func (s *S3Client) DeleteObject(bucket string, key string) error {
	delReq := &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(strings.TrimPrefix(key, "/")),
	}
	_, delErr := s.Client.DeleteObject(context.TODO(), delReq)

	return classifyS3Error(delErr)
}

// classifyS3Error sorts SDK failures into transient and permanent so the
// orchestrator knows what to retry. Throttling and server faults come back
// on a retry, auth and addressing problems do not.
func classifyS3Error(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "SlowDown", "Throttling", "ThrottlingException", "RequestTimeout", "InternalError", "ServiceUnavailable":
			return &TransientError{Err: err}
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "NoSuchBucket", "NoSuchKey", "KeyTooLongError":
			return &PermanentError{Err: err}
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return &TransientError{Err: err}
		}
		return &PermanentError{Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &TransientError{Err: err}
	}

	return &TransientError{Err: err}
}
