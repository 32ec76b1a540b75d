package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g. BRANDGRAPH_SERVER_PORT.
const EnvPrefix = "BRANDGRAPH_"

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid configuration")

// Config is the application configuration.
type Config struct {
	Dataset struct {
		Path string `koanf:"path"`
	} `koanf:"dataset"`

	Server struct {
		Port        int  `koanf:"port"`
		OpenBrowser bool `koanf:"open_browser"`
	} `koanf:"server"`

	Graph struct {
		MaxNodes int `koanf:"max_nodes"` // node count above which the reduced view is served
		TopK     int `koanf:"top_k"`
	} `koanf:"graph"`

	Cache struct {
		Size int `koanf:"size"`
	} `koanf:"cache"`

	Log struct {
		File  string `koanf:"file"`
		Level string `koanf:"level"`
	} `koanf:"log"`

	Brands []string          `koanf:"brands"`
	Topics map[string]string `koanf:"topics"`
}

// DefaultTopics are the labels of the seven upstream LDA topics.
var DefaultTopics = map[string]string{
	"0": "Topic #1: Resale and Marketplaces",
	"1": "Topic #2: New Arrivals and Deals",
	"2": "Topic #3: H&M x BGYO Collaboration",
	"3": "Topic #4: Trends and Sales",
	"4": "Topic #5: Opinions and Comparisons",
	"5": "Topic #6: Online Shopping",
	"6": "Topic #7: Influencer Content",
}

func defaults() map[string]interface{} {
	topics := make(map[string]interface{}, len(DefaultTopics))
	for k, v := range DefaultTopics {
		topics[k] = v
	}
	return map[string]interface{}{
		"dataset.path":        "",
		"server.port":         8080,
		"server.open_browser": true,
		"graph.max_nodes":     500,
		"graph.top_k":         100,
		"cache.size":          64,
		"log.file":            "",
		"log.level":           "info",
		"brands":              []string{"zara", "h&m", "primark", "shein", "asos"},
		"topics":              topics,
	}
}

// Load builds the configuration from defaults, an optional TOML file and
// BRANDGRAPH_* environment variables, in that order of precedence.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config %s: %w", configPath, err)
		}
	}

	// Only the first underscore separates section from key, so
	// BRANDGRAPH_GRAPH_TOP_K maps to graph.top_k.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(s, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.Brands = normalizeBrands(cfg.Brands)

	return &cfg, nil
}

// Validate reports settings that would make the dashboard unusable.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Graph.MaxNodes <= 0 {
		problems = append(problems, "graph.max_nodes must be positive")
	}
	if c.Graph.TopK <= 0 {
		problems = append(problems, "graph.top_k must be positive")
	}
	if c.Cache.Size <= 0 {
		problems = append(problems, "cache.size must be positive")
	}
	if len(c.Brands) == 0 {
		problems = append(problems, "brands must not be empty")
	}
	if _, err := c.TopicLabels(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// TopicLabels converts the configured topic table into an id → label map.
func (c *Config) TopicLabels() (map[int]string, error) {
	labels := make(map[int]string, len(c.Topics))
	keys := make([]string, 0, len(c.Topics))
	for k := range c.Topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("topics key %q is not an integer", k)
		}
		labels[id] = c.Topics[k]
	}
	return labels, nil
}

func normalizeBrands(brands []string) []string {
	var out []string
	seen := make(map[string]bool, len(brands))
	for _, b := range brands {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// InitConfig writes a sample configuration file. It refuses to overwrite an
// existing file.
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}
	return os.WriteFile(configPath, []byte(sampleConfig), 0o644)
}

const sampleConfig = `# brandgraph configuration

[dataset]
# Leave empty to search ./data, the working directory and ~/.brandgraph.
path = ""

[server]
port = 8080
open_browser = true

[graph]
# Graphs with more nodes than max_nodes are reduced to the top_k most mentioned handles.
max_nodes = 500
top_k = 100

[cache]
size = 64

[log]
file = ""
level = "info"
`
