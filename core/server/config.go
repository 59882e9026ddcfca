package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Prefix is an optional URL path prefix for all routes (e.g. "excel-compare"
	// when the service sits behind a path-routing proxy).
	Prefix string `mapstructure:"prefix" default:""`
	// MaxUploadMB is the upload body size limit in megabytes.
	MaxUploadMB int `mapstructure:"max_upload_mb" default:"50"`
}

// RoutePrefix normalizes the configured prefix into a route mount path:
// leading slash, no trailing slash, "/" when no prefix is set.
func (c Config) RoutePrefix() string {
	p := strings.Trim(c.Prefix, "/")
	if p == "" {
		return "/"
	}
	return "/" + p
}
