package config

import "os"

// App captures process level configuration.
type App struct {
	LogLevel      string
	LogFormat     string
	IncludeCaller bool
}

// FromEnv builds an App config from environment variables so main stays lean.
func FromEnv() App {
	level := os.Getenv("CUSTODIA_LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	format := os.Getenv("CUSTODIA_LOG_FORMAT")
	if format == "" {
		format = "text"
	}

	return App{
		LogLevel:      level,
		LogFormat:     format,
		IncludeCaller: os.Getenv("CUSTODIA_LOG_CALLER") == "true",
	}
}
