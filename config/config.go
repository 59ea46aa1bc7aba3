// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "CANDLEPIN"

	DefaultHost            = "localhost"
	DefaultPort            = 8080
	DefaultPrefix          = "/candlepin"
	DefaultCertificatePath = "code/scripts/spacewalk-public.cert"
)

// PayloadShape selects how the encoded certificate is serialized in the
// upload request body.
type PayloadShape string

const (
	// PayloadBare sends the base64 string as a bare JSON string.
	PayloadBare PayloadShape = "bare"
	// PayloadWrapped sends {"base64cert": "<base64>"}.
	PayloadWrapped PayloadShape = "wrapped"
)

func (o PayloadShape) Validate() error {
	switch o {
	case PayloadBare, PayloadWrapped:
		return nil
	default:
		return fmt.Errorf("unexpected certificate payload shape %q", string(o))
	}
}

type Config struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	Prefix string `mapstructure:"prefix"`

	TLS  TLS  `mapstructure:"tls"`
	Auth Auth `mapstructure:"auth"`

	Certificate Certificate `mapstructure:"certificate"`
	Consumer    Consumer    `mapstructure:"consumer"`
}

type TLS struct {
	Enabled  bool     `mapstructure:"enabled"`
	CACerts  []string `mapstructure:"ca_certs"`
	CertFile string   `mapstructure:"cert_file"` // client certificate chain for mutual TLS
	KeyFile  string   `mapstructure:"key_file"`
	Insecure bool     `mapstructure:"insecure"`
}

type Auth struct {
	Method string                 `mapstructure:"method"`
	Config map[string]interface{} `mapstructure:"config"`
}

type Certificate struct {
	Path    string       `mapstructure:"path"`
	BaseDir string       `mapstructure:"base_dir"` // relative Path is resolved against it
	Payload PayloadShape `mapstructure:"payload"`
}

// Consumer holds the registration parameters of the consumer created for
// each test.
type Consumer struct {
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	Name     string            `mapstructure:"name"`
	Facts    map[string]string `mapstructure:"-"` // see loadFacts
	Cleanup  bool              `mapstructure:"cleanup"`
}

func defaultFacts() map[string]string {
	return map[string]string{"a": "1", "b": "2", "c": "3"}
}

// Default returns the configuration of a local development deployment.
func Default() *Config {
	return &Config{
		Host:   DefaultHost,
		Port:   DefaultPort,
		Prefix: DefaultPrefix,
		Auth:   Auth{Method: "none"},
		Certificate: Certificate{
			Path:    DefaultCertificatePath,
			Payload: PayloadBare,
		},
		Consumer: Consumer{
			Username: "fakeuser",
			Password: "fakepw",
			Name:     "consumername",
			Facts:    defaultFacts(),
		},
	}
}

// LoadConfig layers an optional configuration file and CANDLEPIN_* environment
// variables over Default. An empty filePath skips the file.
func LoadConfig(filePath string) (*Config, error) {
	v := viper.New()

	def := Default()

	// Defaults must be set for AutomaticEnv to pick up nested keys.
	v.SetDefault("host", def.Host)
	v.SetDefault("port", def.Port)
	v.SetDefault("prefix", def.Prefix)
	v.SetDefault("tls.enabled", false)
	v.SetDefault("tls.cert_file", "")
	v.SetDefault("tls.key_file", "")
	v.SetDefault("tls.insecure", false)
	v.SetDefault("auth.method", def.Auth.Method)
	v.SetDefault("certificate.path", def.Certificate.Path)
	v.SetDefault("certificate.base_dir", "")
	v.SetDefault("certificate.payload", string(def.Certificate.Payload))
	v.SetDefault("consumer.username", def.Consumer.Username)
	v.SetDefault("consumer.password", def.Consumer.Password)
	v.SetDefault("consumer.name", def.Consumer.Name)
	v.SetDefault("consumer.cleanup", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filePath != "" {
		v.SetConfigFile(filePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", filePath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	facts, err := loadFacts(filePath)
	if err != nil {
		return nil, err
	}

	if facts == nil {
		facts = def.Consumer.Facts
	}
	cfg.Consumer.Facts = facts

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (o *Config) Validate() error {
	if o.Host == "" {
		return errors.New("missing host")
	}

	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid port %d", o.Port)
	}

	if o.Certificate.Path == "" {
		return errors.New("missing certificate path")
	}

	return o.Certificate.Payload.Validate()
}

// Scheme is https when TLS is enabled, http otherwise.
func (o *Config) Scheme() string {
	if o.TLS.Enabled {
		return "https"
	}
	return "http"
}

// EndpointURI is the base URI every API path is joined to.
func (o *Config) EndpointURI() *url.URL {
	prefix := o.Prefix
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	return &url.URL{
		Scheme: o.Scheme(),
		Host:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:   prefix,
	}
}

// CertificateFile resolves the certificate path against BaseDir when it is
// relative.
func (o *Config) CertificateFile() string {
	p := o.Certificate.Path
	if filepath.IsAbs(p) || o.Certificate.BaseDir == "" {
		return p
	}
	return filepath.Join(o.Certificate.BaseDir, p)
}

// loadFacts reads consumer.facts straight from the YAML or JSON file. Viper
// lowercases keys and splits them on dots, and fact names such as
// "uname.machine" or "cpu.cpu_socket(s)" must reach the service verbatim.
// It returns nil when the file configures no facts.
func loadFacts(filePath string) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", filePath, err)
	}

	var raw struct {
		Consumer struct {
			Facts map[string]interface{} `yaml:"facts"`
		} `yaml:"consumer"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding consumer facts in %s: %w", filePath, err)
	}

	if raw.Consumer.Facts == nil {
		return nil, nil
	}

	facts := make(map[string]string, len(raw.Consumer.Facts))
	for k, val := range raw.Consumer.Facts {
		switch val.(type) {
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("consumer fact %q is not a scalar", k)
		case nil:
			facts[k] = ""
		default:
			facts[k] = fmt.Sprint(val)
		}
	}

	return facts, nil
}
