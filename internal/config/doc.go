// Package config loads application configuration and resolves the
// per-user directories the license engine stores its files in.
//
// # Configuration Sources
//
// Configuration is assembled in order of increasing precedence:
//
//	1. Default values (Default)
//	2. YAML file: $ELYOUSR_CONFIG, config.yaml or configs/config.yaml
//	3. Environment variables prefixed with ELYOUSR_
//
// # Environment Variables
//
//	ELYOUSR_SERVER_PORT=8080
//	ELYOUSR_LOGGING_LEVEL=debug
//	ELYOUSR_LICENSE_LOCALE=ar
//	ELYOUSR_LICENSE_DIR=/srv/elyousr
//	ELYOUSR_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Paths
//
// The license file lives in an application-private directory under the
// user's configuration directory (os.UserConfigDir), for example
// ~/.config/ElYousrERP/license.json on Linux or
// %AppData%\ElYousrERP\license.json on Windows. LICENSE_DIR overrides it.
//
// The license public key is compiled into the license package and is not
// configurable.
package config
