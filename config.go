package main

import (
	"fmt"
)

type AppConfig struct {
	Provider             string `default:"aws"`
	Region               string
	Profile              string
	Concurrency          int `default:"4"`
	RetryAttempts        int `default:"3"`
	SkewToleranceSeconds int `default:"1"`
	KeyPrefix            string
	SkipChecksum         bool
	Destructive          bool
	VerifyUploads        bool
	Exclude              []string
	LogLevel             string `default:"info"`
	Sync                 []SyncConfig
	Backup               []BackupConfig
	Notify               NotifyConfig
}

// SyncConfig is one scheduled mirror job for daemon mode.
type SyncConfig struct {
	SourceFolder string `required:"true"`
	Bucket       string `required:"true"`
	Interval     int    `required:"true"`
}

// BackupConfig is one scheduled snapshot-archive job for daemon mode.
type BackupConfig struct {
	SourceFolder string `required:"true"`
	Bucket       string `required:"true"`
	At           string `required:"true"`
}

type NotifyConfig struct {
	Region  string
	Profile string
	Topic   string
}

func (c AppConfig) ClientFromConfig() (BucketClient, error) {
	switch c.Provider {
	case "aws":
		return NewS3BucketClient(c)
	case "gcs":
		return NewGCSBucketClient()
	default:
		return nil, fmt.Errorf("Unknown cloud provider: %s", c.Provider)
	}
}

func (c AppConfig) ConfigStringArray() []string {
	configStrArr := make([]string, 0)
	configStrArr = append(configStrArr, fmt.Sprintf("  - Provider: %s", c.Provider))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Region: %s", c.Region))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Profile: %s", c.Profile))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Concurrent Transfers: %d", c.Concurrency))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Destructive: %t", c.Destructive))

	if c.Notify.Topic != "" {
		configStrArr = append(configStrArr, fmt.Sprintf("  - SNSTopic: %s", c.Notify.Topic))
	}

	if len(c.Sync) != 0 {
		configStrArr = append(configStrArr, "Folders To Sync:")
		for _, syncConfig := range c.Sync {
			configStrArr = append(configStrArr, fmt.Sprintf("%+v", syncConfig))
		}
	}

	if len(c.Backup) != 0 {
		configStrArr = append(configStrArr, "Folders To Backup:")
		for _, backupConfig := range c.Backup {
			configStrArr = append(configStrArr, fmt.Sprintf("%+v", backupConfig))
		}
	}

	return configStrArr
}
