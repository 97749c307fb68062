package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ront3t/beers-table/internal/types"
)

// Config holds the client configuration
type Config struct {
	APIURL          string   `yaml:"api_url"`
	PageSize        int      `yaml:"page_size"`
	Categories      []string `yaml:"categories"`
	DefaultCategory string   `yaml:"default_category"`
	ScrollThreshold int      `yaml:"scroll_threshold"` // rows from the end
	RequestTimeout  int      `yaml:"request_timeout"`  // seconds
	MsgTimeout      int      `yaml:"default_msg_timeout"`
	Theme           Theme    `yaml:"theme"`
}

// Theme holds the table colors. Any color left empty keeps its default.
type Theme struct {
	Background string `yaml:"background"`
	Surface    string `yaml:"surface"`
	Primary    string `yaml:"primary"`
	Secondary  string `yaml:"secondary"`
	Text       string `yaml:"text"`
	Muted      string `yaml:"muted"`
	Border     string `yaml:"border"`
}

// DefaultTheme returns the TikTok-like dark palette.
func DefaultTheme() Theme {
	return Theme{
		Background: "#121212",
		Surface:    "#222327",
		Primary:    "#FE2C55",
		Secondary:  "#25F4EE",
		Text:       "#FFFFFF",
		Muted:      "#AAAAAA",
		Border:     "#393939",
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		APIURL:          "http://localhost:8081",
		PageSize:        10,
		Categories:      []string{types.CategoryAle, types.CategoryStouts},
		DefaultCategory: types.CategoryAle,
		ScrollThreshold: 2,
		RequestTimeout:  10,
		MsgTimeout:      3,
		Theme:           DefaultTheme(),
	}
}

// Load loads configuration from the config file, falling back to defaults
// when there is none.
func Load() (*Config, error) {
	path := getConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) || path == "" {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	def := DefaultConfig()
	if c.APIURL == "" {
		c.APIURL = def.APIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.PageSize < 1 {
		c.PageSize = def.PageSize
	}
	if len(c.Categories) == 0 {
		c.Categories = def.Categories
	}
	c.DefaultCategory = strings.TrimSpace(c.DefaultCategory)
	if c.DefaultCategory == "" {
		c.DefaultCategory = c.Categories[0]
	} else if !slices.Contains(c.Categories, c.DefaultCategory) {
		// an unlisted default is offered like any other category
		c.Categories = append(slices.Clone(c.Categories), c.DefaultCategory)
	}
	if c.ScrollThreshold < 0 {
		c.ScrollThreshold = def.ScrollThreshold
	}
	if c.RequestTimeout < 1 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.MsgTimeout < 1 {
		c.MsgTimeout = def.MsgTimeout
	}
	c.Theme = c.Theme.withDefaults(def.Theme)
}

func (t Theme) withDefaults(def Theme) Theme {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Theme{
		Background: pick(t.Background, def.Background),
		Surface:    pick(t.Surface, def.Surface),
		Primary:    pick(t.Primary, def.Primary),
		Secondary:  pick(t.Secondary, def.Secondary),
		Text:       pick(t.Text, def.Text),
		Muted:      pick(t.Muted, def.Muted),
		Border:     pick(t.Border, def.Border),
	}
}

// Dir returns the directory holding the client config and log.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "beertok"), nil
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if p := os.Getenv("BEERTOK_CONFIG"); p != "" {
		return p
	}
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yml")
}
