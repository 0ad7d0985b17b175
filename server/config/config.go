// Package config loads the static service configuration. Mutable retention
// settings live in the policy store, not here.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Configuration is the static part of the service setup: credentials,
// endpoints and wiring. Environment variables override the file so
// deployments can keep the token out of it.
type Configuration struct {
	// Token authenticates the bot account against the platform.
	Token string `yaml:"token"`
	// GatewayURL is the websocket gateway endpoint.
	GatewayURL string `yaml:"gateway_url"`
	// APIBaseURL overrides the platform REST endpoint; empty means the
	// default.
	APIBaseURL string `yaml:"api_base_url"`
	// DSN is the policy database connection string.
	DSN string `yaml:"dsn"`
	// HTTPAddr is the bind address of the status/metrics HTTP surface;
	// empty disables it.
	HTTPAddr string `yaml:"http_addr"`
	// AllowedOrigins for the HTTP surface's CORS policy.
	AllowedOrigins []string `yaml:"allowed_origins"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// Load reads the YAML configuration file at path, then applies environment
// overrides. A missing file is not an error; the environment alone may carry
// everything.
func Load(path string) (*Configuration, error) {
	c := &Configuration{}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to the environment
	case err != nil:
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	default:
		if err := yaml.UnmarshalStrict(raw, c); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	applyEnv(c)

	if c.Token == "" {
		return nil, errors.New("no bot token configured; set token in the config file or AUTODELETE_TOKEN")
	}
	if c.DSN == "" {
		return nil, errors.New("no database DSN configured; set dsn in the config file or AUTODELETE_DSN")
	}
	return c, nil
}

func applyEnv(c *Configuration) {
	if v := os.Getenv("AUTODELETE_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("AUTODELETE_GATEWAY_URL"); v != "" {
		c.GatewayURL = v
	}
	if v := os.Getenv("AUTODELETE_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("AUTODELETE_DSN"); v != "" {
		c.DSN = v
	}
	if v := os.Getenv("AUTODELETE_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if os.Getenv("AUTODELETE_VERBOSE") == "true" {
		c.Verbose = true
	}
}
