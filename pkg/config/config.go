/*
Package config manages TOML config for askserve.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/askserve/internal/utils"
	"github.com/bastiangx/askserve/pkg/learn"
	"github.com/bastiangx/askserve/pkg/store"
	"github.com/bastiangx/askserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Scoring   ScoringConfig   `toml:"scoring"`
	Learner   LearnerConfig   `toml:"learner"`
	Store     StoreConfig     `toml:"store"`
	Knowledge KnowledgeConfig `toml:"knowledge"`
	CLI       CliConfig       `toml:"cli"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxQueryLen int  `toml:"max_query_len"`
	Autosave    bool `toml:"autosave"`
}

// ScoringConfig holds signal weights and selection rules.
type ScoringConfig struct {
	AcceptanceThreshold float64 `toml:"acceptance_threshold"`
	SuggestionRatio     float64 `toml:"suggestion_ratio"`
	MaxSuggestions      int     `toml:"max_suggestions"`
	DedupeSuggestions   bool    `toml:"dedupe_suggestions"`
	DedupeSimilarity    float64 `toml:"dedupe_similarity"`
	ExactPhraseBonus    float64 `toml:"exact_phrase_bonus"`
	TokenExact          float64 `toml:"token_exact"`
	TokenPartial        float64 `toml:"token_partial"`
	TokenFuzzy          float64 `toml:"token_fuzzy"`
	FuzzyThreshold      float64 `toml:"fuzzy_threshold"`
	SubjectBonus        float64 `toml:"subject_bonus"`
	ContextBonus        float64 `toml:"context_bonus"`
	LearnedBoost        float64 `toml:"learned_boost"`
	PrefixBonus         float64 `toml:"prefix_bonus"`
}

// LearnerConfig tunes the feedback learner.
type LearnerConfig struct {
	RequireHelpful bool `toml:"require_helpful"`
	TopN           int  `toml:"top_n"`
}

// StoreConfig selects where learned state is persisted.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	InMemory bool   `toml:"in_memory"`
}

// KnowledgeConfig points at the dataset and lexicon files.
type KnowledgeConfig struct {
	Path       string `toml:"path"`
	Lexicon    string `toml:"lexicon"`
	Watch      bool   `toml:"watch"`
	DebounceMs int    `toml:"debounce_ms"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	Explain bool `toml:"explain"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", utils.AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/askserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	opts := suggest.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			MaxQueryLen: 512,
			Autosave:    true,
		},
		Scoring: ScoringConfig{
			AcceptanceThreshold: opts.Select.AcceptanceThreshold,
			SuggestionRatio:     opts.Select.SuggestionRatio,
			MaxSuggestions:      opts.Select.MaxSuggestions,
			DedupeSuggestions:   opts.Select.Dedupe,
			DedupeSimilarity:    opts.Select.DedupeSimilarity,
			ExactPhraseBonus:    opts.Weights.ExactPhrase,
			TokenExact:          opts.Weights.TokenExact,
			TokenPartial:        opts.Weights.TokenPartial,
			TokenFuzzy:          opts.Weights.TokenFuzzy,
			FuzzyThreshold:      opts.Weights.FuzzyThreshold,
			SubjectBonus:        opts.Weights.Subject,
			ContextBonus:        opts.Weights.Context,
			LearnedBoost:        opts.Weights.Learned,
			PrefixBonus:         opts.Weights.Prefix,
		},
		Learner: LearnerConfig{
			RequireHelpful: false,
			TopN:           learn.DefaultTopN,
		},
		Store: StoreConfig{
			Backend: string(store.BackendFile),
		},
		Knowledge: KnowledgeConfig{
			DebounceMs: 250,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse keeps every section that still parses and defaults the rest
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "scoring"); ok {
		extractScoringConfig(section, &config.Scoring)
	}
	if section, ok := utils.ExtractSection(tempConfig, "learner"); ok {
		extractLearnerConfig(section, &config.Learner)
	}
	if section, ok := utils.ExtractSection(tempConfig, "store"); ok {
		extractStoreConfig(section, &config.Store)
	}
	if section, ok := utils.ExtractSection(tempConfig, "knowledge"); ok {
		extractKnowledgeConfig(section, &config.Knowledge)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractBool(section, "explain"); ok {
			config.CLI.Explain = val
		}
	}
	config.Validate()
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
	if val, ok := utils.ExtractBool(data, "autosave"); ok {
		server.Autosave = val
	}
}

func extractScoringConfig(data map[string]any, s *ScoringConfig) {
	floats := map[string]*float64{
		"acceptance_threshold": &s.AcceptanceThreshold,
		"suggestion_ratio":     &s.SuggestionRatio,
		"dedupe_similarity":    &s.DedupeSimilarity,
		"exact_phrase_bonus":   &s.ExactPhraseBonus,
		"token_exact":          &s.TokenExact,
		"token_partial":        &s.TokenPartial,
		"token_fuzzy":          &s.TokenFuzzy,
		"fuzzy_threshold":      &s.FuzzyThreshold,
		"subject_bonus":        &s.SubjectBonus,
		"context_bonus":        &s.ContextBonus,
		"learned_boost":        &s.LearnedBoost,
		"prefix_bonus":         &s.PrefixBonus,
	}
	for key, dst := range floats {
		if val, ok := utils.ExtractFloat64(data, key); ok {
			*dst = val
		}
	}
	if val, ok := utils.ExtractInt64(data, "max_suggestions"); ok {
		s.MaxSuggestions = val
	}
	if val, ok := utils.ExtractBool(data, "dedupe_suggestions"); ok {
		s.DedupeSuggestions = val
	}
}

func extractLearnerConfig(data map[string]any, l *LearnerConfig) {
	if val, ok := utils.ExtractBool(data, "require_helpful"); ok {
		l.RequireHelpful = val
	}
	if val, ok := utils.ExtractInt64(data, "top_n"); ok {
		l.TopN = val
	}
}

func extractStoreConfig(data map[string]any, s *StoreConfig) {
	if val, ok := utils.ExtractString(data, "backend"); ok {
		s.Backend = val
	}
	if val, ok := utils.ExtractString(data, "path"); ok {
		s.Path = val
	}
	if val, ok := utils.ExtractBool(data, "in_memory"); ok {
		s.InMemory = val
	}
}

func extractKnowledgeConfig(data map[string]any, k *KnowledgeConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		k.Path = val
	}
	if val, ok := utils.ExtractString(data, "lexicon"); ok {
		k.Lexicon = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		k.Watch = val
	}
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		k.DebounceMs = val
	}
}

// Validate resets out of range values to their defaults.
func (c *Config) Validate() {
	d := DefaultConfig()
	if c.Server.MaxQueryLen <= 0 {
		log.Warnf("server.max_query_len %d is invalid, using %d", c.Server.MaxQueryLen, d.Server.MaxQueryLen)
		c.Server.MaxQueryLen = d.Server.MaxQueryLen
	}
	if c.Scoring.MaxSuggestions < 0 {
		log.Warnf("scoring.max_suggestions %d is invalid, using %d", c.Scoring.MaxSuggestions, d.Scoring.MaxSuggestions)
		c.Scoring.MaxSuggestions = d.Scoring.MaxSuggestions
	}
	if c.Scoring.SuggestionRatio < 0 || c.Scoring.SuggestionRatio > 1 {
		log.Warnf("scoring.suggestion_ratio %.2f is outside [0,1], using %.2f", c.Scoring.SuggestionRatio, d.Scoring.SuggestionRatio)
		c.Scoring.SuggestionRatio = d.Scoring.SuggestionRatio
	}
	if c.Scoring.FuzzyThreshold < 0 || c.Scoring.FuzzyThreshold > 1 {
		log.Warnf("scoring.fuzzy_threshold %.2f is outside [0,1], using %.2f", c.Scoring.FuzzyThreshold, d.Scoring.FuzzyThreshold)
		c.Scoring.FuzzyThreshold = d.Scoring.FuzzyThreshold
	}
	if c.Learner.TopN <= 0 {
		c.Learner.TopN = d.Learner.TopN
	}
	if c.Knowledge.DebounceMs <= 0 {
		c.Knowledge.DebounceMs = d.Knowledge.DebounceMs
	}
}

// EngineOptions maps the scoring section onto matcher options.
func (c *Config) EngineOptions() suggest.Options {
	s := c.Scoring
	return suggest.Options{
		Weights: suggest.Weights{
			ExactPhrase:    s.ExactPhraseBonus,
			TokenExact:     s.TokenExact,
			TokenPartial:   s.TokenPartial,
			TokenFuzzy:     s.TokenFuzzy,
			FuzzyThreshold: s.FuzzyThreshold,
			Subject:        s.SubjectBonus,
			Context:        s.ContextBonus,
			Learned:        s.LearnedBoost,
			Prefix:         s.PrefixBonus,
		},
		Select: suggest.SelectOptions{
			AcceptanceThreshold: s.AcceptanceThreshold,
			SuggestionRatio:     s.SuggestionRatio,
			MaxSuggestions:      s.MaxSuggestions,
			Dedupe:              s.DedupeSuggestions,
			DedupeSimilarity:    s.DedupeSimilarity,
		},
	}
}

// LearnerOptions maps the learner section.
func (c *Config) LearnerOptions() learn.Options {
	return learn.Options{
		RequireHelpful: c.Learner.RequireHelpful,
		TopN:           c.Learner.TopN,
	}
}

// StoreOptions maps the store section. A relative or empty path is placed in dataDir.
func (c *Config) StoreOptions(dataDir string) store.Config {
	cfg := store.Config{
		Backend:  store.Backend(strings.ToLower(strings.TrimSpace(c.Store.Backend))),
		Path:     c.Store.Path,
		InMemory: c.Store.InMemory,
	}
	if cfg.Path == "" {
		name := "learned.msgpack"
		if cfg.Backend == store.BackendBadger {
			name = "learned.badger"
		}
		cfg.Path = filepath.Join(dataDir, name)
	} else if !filepath.IsAbs(cfg.Path) && dataDir != "" {
		cfg.Path = filepath.Join(dataDir, cfg.Path)
	}
	return cfg
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
