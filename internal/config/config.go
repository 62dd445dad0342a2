package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// Config keys.
const (
	KeyOutputDir    = "output-dir"
	KeyDBPath       = "db-path"
	KeyFrontendURL  = "frontend-url"
	KeyLogMode      = "log-mode"
	KeyLanguage     = "lang"
	KeyGroqModels   = "groq-models"
	KeyGeminiModels = "gemini-models"
)

// Environment variable fallbacks.
const (
	EnvOutputDir    = "STUDYGUIDE_OUTPUT_DIR"
	EnvDBPath       = "STUDYGUIDE_DB_PATH"
	EnvFrontendURL  = "FRONTEND_URL"
	EnvLogMode      = "STUDYGUIDE_LOG_MODE"
	EnvLanguage     = "STUDYGUIDE_LANG"
	EnvGroqModels   = "STUDYGUIDE_GROQ_MODELS"
	EnvGeminiModels = "STUDYGUIDE_GEMINI_MODELS"
)

// Defaults applied after the file and the environment.
const (
	DefaultFrontendURL = "http://localhost:5173"
	DefaultLogMode     = "dev"

	// DBPathOff disables persistence (history is kept in memory only).
	DBPathOff = "off"

	appDirName = "go-studyguide"
	dbFileName = "history.db"
)

// ErrUnknownKey is returned by Validate for keys Load does not read.
var ErrUnknownKey = errors.New("unknown config key")

// setting describes one config key.
type setting struct {
	env      string
	validate func(string) error
}

var settings = map[string]setting{
	KeyOutputDir:    {env: EnvOutputDir, validate: ValidOutputDir},
	KeyDBPath:       {env: EnvDBPath},
	KeyFrontendURL:  {env: EnvFrontendURL, validate: validURL},
	KeyLogMode:      {env: EnvLogMode, validate: oneOf("dev", "prod", "silent")},
	KeyLanguage:     {env: EnvLanguage},
	KeyGroqModels:   {env: EnvGroqModels, validate: nonEmptyList},
	KeyGeminiModels: {env: EnvGeminiModels, validate: nonEmptyList},
}

// Keys returns every supported key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKey reports whether key is supported.
func IsKey(key string) bool {
	_, ok := settings[key]
	return ok
}

// Validate checks value for key. Unknown keys are rejected.
func Validate(key, value string) error {
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("%w %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	if s.validate == nil {
		return nil
	}
	if err := s.validate(value); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

// Config holds user configuration loaded from ~/.config/go-studyguide/config.
// Credentials are never stored here; they come from the environment (.env).
type Config struct {
	OutputDir    string
	DBPath       string
	FrontendURL  string
	LogMode      string
	Language     string
	GroqModels   []string
	GeminiModels []string
}

// PersistenceEnabled reports whether history should be written to disk.
func (c Config) PersistenceEnabled() bool {
	return c.DBPath != "" && c.DBPath != DBPathOff
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/go-studyguide.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks, then
// defaults. A missing file is not an error.
func Load() (Config, error) {
	p, err := path()
	if err != nil {
		return Config{}, err
	}

	data, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	value := func(key string) string {
		if v := data[key]; v != "" {
			return v
		}
		return os.Getenv(settings[key].env)
	}

	cfg := Config{
		OutputDir:    ExpandPath(value(KeyOutputDir)),
		DBPath:       ExpandPath(value(KeyDBPath)),
		FrontendURL:  value(KeyFrontendURL),
		LogMode:      value(KeyLogMode),
		Language:     value(KeyLanguage),
		GroqModels:   splitList(value(KeyGroqModels)),
		GeminiModels: splitList(value(KeyGeminiModels)),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(p), dbFileName)
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = DefaultFrontendURL
	}
	if cfg.LogMode == "" {
		cfg.LogMode = DefaultLogMode
	}
	return cfg, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file, keys sorted.
func writeFile(p string, data map[string]string) error {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, data[key]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	data, err := List()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// List returns all config file values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	return data, nil
}

// ResolveOutputPath resolves the final output path using the following precedence:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}
	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}
	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// ValidOutputDir checks if a directory path is valid for use as output-dir,
// creating it when missing.
func ValidOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output-dir cannot be empty")
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", d)
	}

	testFile := filepath.Join(d, ".go-studyguide-write-test")
	f, err := os.Create(testFile) // #nosec G304 -- path is constructed from validated dir
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(testFile)
		return fmt.Errorf("directory is not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func nonEmptyList(v string) error {
	if len(splitList(v)) == 0 {
		return fmt.Errorf("expected a comma-separated list of model names")
	}
	return nil
}

func validURL(v string) error {
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("expected an http(s) origin like %s", DefaultFrontendURL)
	}
	return nil
}

func oneOf(allowed ...string) func(string) error {
	return func(v string) error {
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("expected one of %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}
