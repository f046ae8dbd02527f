// Package settings holds the configuration shared by the swagger renderers
// and views.
//
// Configuration is an explicit Config value passed at construction time.
// DefaultConfig mirrors the stock settings; LoadFile overlays a YAML file on
// top of the defaults:
//
//	# swagger.yaml
//	use_session_auth: false
//	doc_expansion: list
//	security_definitions:
//	  api_key:
//	    type: apiKey
//	    in: header
//	    name: Authorization
package settings

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config enumerates every swagger setting.
type Config struct {
	// SecurityDefinitions is copied verbatim into the "securityDefinitions"
	// entry of the OpenAPI document when non-empty.
	SecurityDefinitions map[string]any `yaml:"security_definitions"`

	// UseSessionAuth shows the login and logout controls on the docs page.
	UseSessionAuth bool `yaml:"use_session_auth"`

	// LoginURL and LogoutURL are route names or literal URLs.
	LoginURL  string `yaml:"login_url"`
	LogoutURL string `yaml:"logout_url"`

	// APIsSorter is "" or "alpha".
	APIsSorter string `yaml:"apis_sorter"`
	// DocExpansion is one of "none", "list" or "full".
	DocExpansion string `yaml:"doc_expansion"`
	JSONEditor   bool   `yaml:"json_editor"`
	// OperationsSorter is "", "alpha" or "method".
	OperationsSorter       string   `yaml:"operations_sorter"`
	ShowRequestHeaders     bool     `yaml:"show_request_headers"`
	SupportedSubmitMethods []string `yaml:"supported_submit_methods"`
	// ValidatorURL points Swagger UI at an online validator; empty disables it.
	ValidatorURL string `yaml:"validator_url"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		SecurityDefinitions: map[string]any{
			"basic": map[string]any{"type": "basic"},
		},
		UseSessionAuth:         true,
		LoginURL:               "login",
		LogoutURL:              "logout",
		DocExpansion:           "none",
		SupportedSubmitMethods: []string{"get", "post", "put", "delete", "patch"},
	}
}

var (
	docExpansions     = []string{"none", "list", "full"}
	apisSorters       = []string{"", "alpha"}
	operationsSorters = []string{"", "alpha", "method"}
	submitMethods     = []string{"get", "post", "put", "delete", "patch", "head", "options"}
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("settings: invalid config")

// Validate checks enumerated settings.
func (c Config) Validate() error {
	var errs []error

	if !slices.Contains(docExpansions, c.DocExpansion) {
		errs = append(errs, fmt.Errorf("%w: doc_expansion %q, want one of %s",
			ErrInvalidConfig, c.DocExpansion, strings.Join(docExpansions, ", ")))
	}
	if !slices.Contains(apisSorters, c.APIsSorter) {
		errs = append(errs, fmt.Errorf("%w: apis_sorter %q", ErrInvalidConfig, c.APIsSorter))
	}
	if !slices.Contains(operationsSorters, c.OperationsSorter) {
		errs = append(errs, fmt.Errorf("%w: operations_sorter %q", ErrInvalidConfig, c.OperationsSorter))
	}
	for _, m := range c.SupportedSubmitMethods {
		if !slices.Contains(submitMethods, m) {
			errs = append(errs, fmt.Errorf("%w: supported_submit_methods entry %q", ErrInvalidConfig, m))
		}
	}
	// The docs page resolves both URLs even with session auth disabled.
	if c.LoginURL == "" {
		errs = append(errs, fmt.Errorf("%w: login_url is required", ErrInvalidConfig))
	}
	if c.LogoutURL == "" {
		errs = append(errs, fmt.Errorf("%w: logout_url is required", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Load decodes YAML data over the defaults and validates the result.
// Keys absent from data keep their default values; an explicit empty
// security_definitions mapping disables the default definitions.
func Load(data []byte) (Config, error) {
	cfg := DefaultConfig()

	// SecurityDefinitions is a map: decode into a fresh value so the YAML
	// replaces the defaults instead of merging into them.
	var probe struct {
		SecurityDefinitions *yaml.Node `yaml:"security_definitions"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Config{}, fmt.Errorf("settings: parse: %w", err)
	}
	if probe.SecurityDefinitions != nil {
		cfg.SecurityDefinitions = nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("settings: parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and decodes a YAML settings file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("settings: %w", err)
	}
	return Load(data)
}

// UISettings returns the settings passed to Swagger UI by the docs page.
// Keys match the names the page script reads.
func (c Config) UISettings() map[string]any {
	methods := c.SupportedSubmitMethods
	if methods == nil {
		methods = []string{}
	}
	return map[string]any{
		"apisSorter":             c.APIsSorter,
		"docExpansion":           c.DocExpansion,
		"jsonEditor":             c.JSONEditor,
		"operationsSorter":       c.OperationsSorter,
		"showRequestHeaders":     c.ShowRequestHeaders,
		"supportedSubmitMethods": methods,
		"validatorUrl":           c.ValidatorURL,
	}
}
