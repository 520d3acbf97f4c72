package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	"gopkg.in/yaml.v3"
)

const (
	StageDev  = "dev"
	StageProd = "prod"

	defaultPort        = 8000
	defaultGracePeriod = 2 * time.Minute
)

type Config struct {
	Stage        string
	Port         int
	DatabaseURL  string
	RulesetsPath string
	LogLevel     log.Level

	// how long a client that dropped mid-game may take to reconnect
	ReconnectGracePeriod time.Duration
}

// Load reads the environment. Outside prod a .env file is loaded first if
// there is one.
func Load(envFile string) (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg := Config{
		Stage:        os.Getenv("STAGE"),
		Port:         defaultPort,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RulesetsPath: os.Getenv("RULESETS_PATH"),
		LogLevel:     log.InfoLevel,

		ReconnectGracePeriod: defaultGracePeriod,
	}

	if cfg.Stage == "" {
		cfg.Stage = StageDev
	}
	if cfg.Stage != StageDev && cfg.Stage != StageProd {
		return Config{}, fmt.Errorf("stage must be either dev or prod, got: %s", cfg.Stage)
	}

	if portEnv := os.Getenv("PORT"); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid port: %s", portEnv)
		}
		cfg.Port = port
	}

	if levelEnv := os.Getenv("LOG_LEVEL"); levelEnv != "" {
		level, err := log.ParseLevel(levelEnv)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}

	if graceEnv := os.Getenv("RECONNECT_GRACE_PERIOD"); graceEnv != "" {
		grace, err := time.ParseDuration(graceEnv)
		if err != nil || grace <= 0 {
			return Config{}, fmt.Errorf("invalid reconnect grace period: %s", graceEnv)
		}
		cfg.ReconnectGracePeriod = grace
	}

	return cfg, nil
}

type rulesetFile struct {
	Rulesets []rulesetEntry `yaml:"rulesets"`
}

type rulesetEntry struct {
	Name    string      `yaml:"name"`
	Width   int         `yaml:"width"`
	Height  int         `yaml:"height"`
	Spacing bool        `yaml:"spacing"`
	Ships   map[int]int `yaml:"ships"` // length -> count
}

func (re rulesetEntry) build() (*mb.Ruleset, error) {
	if re.Name == "" {
		return nil, errors.New("ruleset without a name")
	}

	r := mb.NewRuleset(re.Name)
	if err := r.SetGridSize(re.Width, re.Height); err != nil {
		return nil, err
	}
	if err := r.SetSpacingConstraint(re.Spacing); err != nil {
		return nil, err
	}
	for length, count := range re.Ships {
		if err := r.SetShipCount(length, count); err != nil {
			return nil, err
		}
	}
	return r, r.Validate()
}

func ParseRulesets(b []byte) ([]*mb.Ruleset, error) {
	var file rulesetFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, err
	}

	rulesets := make([]*mb.Ruleset, 0, len(file.Rulesets))
	for _, entry := range file.Rulesets {
		r, err := entry.build()
		if err != nil {
			return nil, err
		}
		rulesets = append(rulesets, r)
	}
	return rulesets, nil
}

func LoadRulesets(path string) ([]*mb.Ruleset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRulesets(b)
}

// NewRulesetRegistry holds the official rulesets plus whatever the
// configured file adds.
func (c Config) NewRulesetRegistry() (*mb.RulesetRegistry, error) {
	registry := mb.NewRulesetRegistry()
	if c.RulesetsPath == "" {
		return registry, nil
	}

	rulesets, err := LoadRulesets(c.RulesetsPath)
	if err != nil {
		return nil, err
	}
	for _, r := range rulesets {
		if err := registry.Register(r); err != nil {
			return nil, err
		}
		log.Info("registered ruleset", "name", r.Name(), "width", r.Width(), "height", r.Height())
	}
	return registry, nil
}
