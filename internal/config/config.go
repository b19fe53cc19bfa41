// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the notification relay's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the Postgres connection string for the delivery log.
	DatabaseDSN string

	// APIBaseURL is the base URL of the task backend.
	APIBaseURL string

	// NotifyBaseURL is the base URL of the notification relay.
	NotifyBaseURL string

	// StateDir is where the client persists its session.
	StateDir string

	// AuthSecret signs and verifies bearer tokens on the relay.
	AuthSecret string

	// GatewayURL is the external SMS/email/push provider endpoint.
	GatewayURL string

	// GatewayAPIKey authenticates the relay against the provider.
	GatewayAPIKey string

	// SenderID is the provider sender name attached to SMS messages.
	SenderID string

	// Retention is how long delivery records are kept.
	Retention time.Duration

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:7000", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.APIBaseURL, "api", "http://localhost:5000", "task backend base URL")
	flag.StringVar(&options.NotifyBaseURL, "notify", "http://localhost:7000", "notification relay base URL")
	flag.StringVar(&options.StateDir, "state", "", "client state directory (default: user config dir)")
	flag.StringVar(&options.AuthSecret, "secret", "", "bearer token secret")
	flag.StringVar(&options.GatewayURL, "gateway", "", "SMS gateway URL")
	flag.StringVar(&options.SenderID, "sender", "TaskTracker", "SMS sender id")
	flag.DurationVar(&options.Retention, "retention", 30*24*time.Hour, "delivery log retention")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if apiURL := os.Getenv("TASK_API_URL"); apiURL != "" {
		options.APIBaseURL = apiURL
	}
	if notifyURL := os.Getenv("NOTIFY_URL"); notifyURL != "" {
		options.NotifyBaseURL = notifyURL
	}
	if secret := os.Getenv("AUTH_SECRET"); secret != "" {
		options.AuthSecret = secret
	}
	if gateway := os.Getenv("AT_GATEWAY_URL"); gateway != "" {
		options.GatewayURL = gateway
	}
	if apiKey := os.Getenv("AT_API_KEY"); apiKey != "" {
		options.GatewayAPIKey = apiKey
	}
	if sender := os.Getenv("AT_SENDER_ID"); sender != "" {
		options.SenderID = sender
	}

	return options
}
