package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jinzhu/configor"
	log "github.com/sirupsen/logrus"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s [-configfile path] backup <directory_path> <bucket_name>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s [-configfile path] restore <bucket_name> <directory_path>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -configfile path daemon\n", os.Args[0])
	os.Exit(2)
}

func main() {
	configFilePath := flag.String("configfile", "", "Configuration File Path")
	flag.Parse()

	var appConfig AppConfig
	var configErr error
	if *configFilePath != "" {
		configErr = configor.Load(&appConfig, *configFilePath)
	} else {
		configErr = configor.Load(&appConfig)
	}
	if configErr != nil {
		log.Fatal(fmt.Sprintf("Error loading config: %s", configErr))
	}

	logLevel, levelErr := log.ParseLevel(appConfig.LogLevel)
	if levelErr != nil {
		log.Fatal(fmt.Sprintf("Invalid log level %q", appConfig.LogLevel))
	}
	log.SetLevel(logLevel)

	log.Info("Loaded configuration:")
	for _, configStr := range appConfig.ConfigStringArray() {
		log.Info(configStr)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	client, clientErr := appConfig.ClientFromConfig()
	if clientErr != nil {
		log.Fatal(fmt.Sprintf("Error creating bucket client: %s", clientErr))
	}

	var notifier Notifier
	if appConfig.Notify.Topic != "" {
		var notifierErr error
		notifier, notifierErr = NewSNSNotifier(appConfig)
		if notifierErr != nil {
			log.Fatal(fmt.Sprintf("Error creating SNS notifier: %s", notifierErr))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller := NewSyncController(client, notifier, appConfig)

	switch args[0] {
	case "backup":
		if len(args) != 3 {
			usage()
		}
		summary, syncErr := controller.Backup(ctx, args[1], args[2])
		exitForSummary(summary, syncErr)
	case "restore":
		if len(args) != 3 {
			usage()
		}
		summary, syncErr := controller.Restore(ctx, args[1], args[2])
		exitForSummary(summary, syncErr)
	case "daemon":
		if daemonErr := runDaemon(ctx, controller, client, notifier, appConfig); daemonErr != nil {
			log.Fatal(fmt.Sprintf("Daemon error: %s", daemonErr))
		}
	default:
		usage()
	}
}

func exitForSummary(summary *SyncSummary, syncErr error) {
	if syncErr != nil {
		log.Error(fmt.Sprintf("Run aborted: %s", syncErr))
		os.Exit(1)
	}
	for _, failure := range summary.Failures {
		log.Error(fmt.Sprintf("%s %s: %s", failure.Action, failure.RelPath, failure.Err))
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
