// Package config loads organogram settings from a TOML file and the
// environment.
//
// Lookup order for the file: the explicit path given to [Load], then
// $ORGANOGRAM_CONFIG, then ~/.config/organogram/config.toml. A missing
// default file is not an error; defaults apply. Environment overrides are
// applied last.
//
//	[layout]
//	node_width = 160
//	node_height = 80
//	level_height = 150
//	node_spacing = 200
//	base_y = 100
//
//	[api]
//	base_url = "https://console.example.com/admin/corporate/structure/api"
//	csrf_token = ""
//	timeout = "10s"
//
//	[drafts]
//	backend = "file"   # file | redis | mongo | none
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/organogram/pkg/api"
	"github.com/matzehuels/organogram/pkg/drafts"
	orgerrors "github.com/matzehuels/organogram/pkg/errors"
	"github.com/matzehuels/organogram/pkg/layout"
)

// Environment variables read by [Load].
const (
	EnvConfig    = "ORGANOGRAM_CONFIG"
	EnvAPIURL    = "ORGANOGRAM_API_URL"
	EnvCSRFToken = "ORGANOGRAM_CSRF_TOKEN"
)

// Config is the full settings tree.
type Config struct {
	Layout layout.Config `toml:"layout"`
	API    APIConfig     `toml:"api"`
	Drafts DraftsConfig  `toml:"drafts"`
	Server ServerConfig  `toml:"server"`
}

// APIConfig points at the structure API.
type APIConfig struct {
	BaseURL   string        `toml:"base_url"`
	CSRFToken string        `toml:"csrf_token"`
	Timeout   time.Duration `toml:"timeout"`
}

// DraftsConfig selects the draft backend.
type DraftsConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPrefix   string        `toml:"redis_prefix"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
	TTL           time.Duration `toml:"ttl"`
}

// ServerConfig configures `organogram serve`.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	StructureID string `toml:"structure_id"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		API:    APIConfig{Timeout: api.DefaultTimeout},
		Drafts: DraftsConfig{
			Backend:       drafts.BackendFile,
			RedisAddr:     "localhost:6379",
			RedisPrefix:   drafts.DefaultRedisPrefix,
			MongoDatabase: drafts.DefaultMongoDatabase,
			TTL:           drafts.DefaultTTL,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns ~/.config/organogram/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "organogram", "config.toml"), nil
}

// Load reads the config file at path (or the default location when path is
// empty) over the defaults, then applies environment overrides.
// An explicitly named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p := os.Getenv(EnvConfig); p != "" {
			path, explicit = p, true
		} else if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				return cfg.withEnv(), nil
			}
			return Config{}, err
		}
	}
	return cfg.withEnv(), nil
}

// Decode reads TOML from r over the defaults. Environment is not consulted.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, orgerrors.Wrap(orgerrors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, orgerrors.New(orgerrors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	return cfg.normalized(), nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

func (c *Config) decodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return orgerrors.Wrap(orgerrors.ErrCodeNotFound, err, "config file %s", path)
		}
		return orgerrors.Wrap(orgerrors.ErrCodeInternal, err, "open config %s", path)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeInvalidInput, err, "config file %s", path)
	}
	*c = cfg
	return nil
}

func (c Config) withEnv() Config {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvCSRFToken); v != "" {
		c.API.CSRFToken = v
	}
	return c
}

// normalized fills zero values left by a partial file.
func (c Config) normalized() Config {
	c.Layout = c.Layout.WithDefaults()
	if c.API.Timeout <= 0 {
		c.API.Timeout = api.DefaultTimeout
	}
	if c.Drafts.Backend == "" {
		c.Drafts.Backend = drafts.BackendFile
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	return c
}

// APIClientConfig converts the [api] section for [api.NewClient].
func (c Config) APIClientConfig() api.Config {
	return api.Config{BaseURL: c.API.BaseURL, CSRFToken: c.API.CSRFToken, Timeout: c.API.Timeout}
}

// DraftStoreConfig converts the [drafts] section for [drafts.Open].
func (c Config) DraftStoreConfig() drafts.Config {
	return drafts.Config{
		Backend:       c.Drafts.Backend,
		TTL:           c.Drafts.TTL,
		Dir:           c.Drafts.Dir,
		RedisAddr:     c.Drafts.RedisAddr,
		RedisPrefix:   c.Drafts.RedisPrefix,
		MongoURI:      c.Drafts.MongoURI,
		MongoDatabase: c.Drafts.MongoDatabase,
	}
}
