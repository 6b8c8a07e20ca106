// Package config loads the disambiguator settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"disambig/internal/bayes"
	"disambig/internal/cbr"
	"disambig/internal/corrector"
)

// Config is the full disambiguator configuration.
type Config struct {
	Candidates []string     `yaml:"candidates"`
	Primary    string       `yaml:"primary"`
	Bayes      BayesConfig  `yaml:"bayes"`
	CBR        CBRConfig    `yaml:"cbr"`
	Redis      RedisConfig  `yaml:"redis"`
	Store      StoreConfig  `yaml:"store"`
	Server     ServerConfig `yaml:"server"`
}

// BayesConfig names the topologies to build.
type BayesConfig struct {
	Topologies []string                `yaml:"topologies"`
	Custom     map[string][]bayes.Edge `yaml:"custom_topologies"`
	CacheSize  int                     `yaml:"cache_size"`
}

// CBRConfig names the metrics to build and bounds K.
type CBRConfig struct {
	Metrics []string `yaml:"metrics"`
	KMax    int      `yaml:"k_max"`
	KRatio  int      `yaml:"k_ratio"`
}

// RedisConfig locates the corpus list.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Corpus   string `yaml:"corpus"`
}

// StoreConfig locates the run history database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds the HTTP listen address and optional training file.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	TrainPath string `yaml:"train_path"`
}

// DefaultConfig returns the there/their pair with every built-in engine.
func DefaultConfig() *Config {
	return &Config{
		Candidates: []string{"there", "their"},
		Bayes: BayesConfig{
			Topologies: []string{"chain", "fork"},
			CacheSize:  4096,
		},
		CBR: CBRConfig{
			Metrics: []string{"exact", "edit"},
			KMax:    21,
			KRatio:  5,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Corpus: "default",
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "disambig.db"
	}
	return filepath.Join(home, ".disambig", "runs.db")
}

// Load reads path over the defaults, then applies the environment. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := loadYAMLFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	applyEnvironment(cfg)
	return cfg, nil
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvironment(cfg *Config) {
	if v := os.Getenv("DISAMBIG_CANDIDATES"); v != "" {
		cfg.Candidates = splitList(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("CORPUS"); v != "" {
		cfg.Redis.Corpus = v
	}
	if v := os.Getenv("DISAMBIG_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TRAIN_PATH"); v != "" {
		cfg.Server.TrainPath = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SetCandidates parses "a,b".
func (c *Config) SetCandidates(s string) {
	c.Candidates = splitList(s)
}

// Corrector resolves topology and metric names into a corrector configuration.
func (c *Config) Corrector() (corrector.CorrectorConfig, error) {
	var cc corrector.CorrectorConfig
	if len(c.Candidates) != 2 {
		return cc, fmt.Errorf("%w: need exactly two candidates, got %v", corrector.ErrInvalidCandidates, c.Candidates)
	}
	cc.Candidate1, cc.Candidate2 = c.Candidates[0], c.Candidates[1]
	cc.Primary = c.Primary
	cc.KMax = c.CBR.KMax
	cc.KRatio = c.CBR.KRatio
	cc.CacheSize = c.Bayes.CacheSize

	for _, name := range c.Bayes.Topologies {
		if edges, ok := c.Bayes.Custom[name]; ok {
			cc.Topologies = append(cc.Topologies, bayes.Topology{Name: name, Edges: edges})
			continue
		}
		topo, err := bayes.TopologyByName(name)
		if err != nil {
			return cc, err
		}
		cc.Topologies = append(cc.Topologies, topo)
	}
	for _, name := range c.CBR.Metrics {
		m, err := cbr.ParseMetric(name)
		if err != nil {
			return cc, err
		}
		cc.Metrics = append(cc.Metrics, m)
	}
	return cc, nil
}
