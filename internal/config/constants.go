package config

import (
	"time"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts"
)

// Application constants
const (
	AppName    = "ElYousrERP"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. ELYOUSR_SERVER_PORT.
	EnvPrefix = "ELYOUSR"

	// ConfigFileEnv points Load at an explicit YAML file.
	ConfigFileEnv = "ELYOUSR_CONFIG"

	DefaultLicenseFileName = "license.json"
	DefaultLogFileName     = "app.log"

	DefaultPort            = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 10
)
