// Package config loads runtime configuration for the cahier de veille
// terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config or $CONFIG_PATH.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string        base URL of the server
//	-timeout int     request timeout (seconds)
//	-debounce int    quiet period before a typed call-sign is proposed (milliseconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "debounce": "800ms"
//	}
package config
