package config

import "github.com/relayworks/oneshot/util/conf"

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// ContentDir is the directory the content store serves from
	ContentDir string `conf:"content_dir"`
}

var DefaultConfig = conf.DefaultConfig{
	"log_level":   "info",
	"log_format":  "production",
	"content_dir": "./content",
}
