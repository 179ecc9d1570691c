package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/dwarflabs/git-me/internal/branch"
	"github.com/dwarflabs/git-me/internal/logs"
)

const (
	AppDirName       = "git-me"
	GlobalConfigFile = "config.yaml"
	LocalConfigFile  = ".git-me.yaml"
)

// Known keys.
const (
	KeyServer        = "server"
	KeyPrivateToken  = "private_token"
	KeyDevelopBranch = "develop_branch"
	KeyMasterBranch  = "master_branch"
	KeyNotifyKind    = "notify_kind"
	KeyNotifyURL     = "notify_url"
	KeyEditor        = "editor"
	KeyRemote        = "remote"
	KeyHooks         = "hooks"
)

var defaults = map[string]string{
	KeyDevelopBranch: branch.DefaultBases.Develop,
	KeyMasterBranch:  branch.DefaultBases.Master,
	KeyNotifyKind:    "teams",
	KeyRemote:        "origin",
}

var (
	globalConfig = make(map[string]string)
	localConfig  = make(map[string]string)

	globalLoaded bool
	localDir     = "."
)

// GlobalConfigPath returns $XDG_CONFIG_HOME/git-me/config.yaml.
func GlobalConfigPath() (string, error) {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, AppDirName, GlobalConfigFile), nil
}

// InitializeGlobalConfig loads the global config, creating an empty one on
// first use.
func InitializeGlobalConfig() error {
	if globalLoaded {
		return nil
	}

	configPath, err := GlobalConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if e := saveYAML(configPath, map[string]string{}); e != nil {
			return e
		}
	}

	data, err := loadYAML(configPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", configPath, err)
	}
	for k, v := range data {
		globalConfig[k] = v
	}
	globalLoaded = true
	logs.Debug("Loaded global config from %s", configPath)
	return nil
}

// LoadRepoConfig reads dir/.git-me.yaml when it exists. The file is never
// created implicitly since that would dirty the working tree.
func LoadRepoConfig(dir string) error {
	localDir = dir
	localPath := filepath.Join(dir, LocalConfigFile)
	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return nil
	}
	data, err := loadYAML(localPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", localPath, err)
	}
	for k, v := range data {
		localConfig[k] = v
	}
	logs.Debug("Loaded repo config from %s", localPath)
	return nil
}

// EnvName is the environment variable overriding key, e.g. GITME_DEVELOP_BRANCH.
func EnvName(key string) string {
	return "GITME_" + strcase.ToScreamingSnake(key)
}

// GetConfigValue resolves key from GITME_<KEY>, then the repo config, then the
// global config, then the built-in default.
func GetConfigValue(key string) string {
	if val := os.Getenv(EnvName(key)); val != "" {
		return val
	}
	if val, ok := localConfig[key]; ok {
		return val
	}
	if val, ok := globalConfig[key]; ok {
		return val
	}
	return defaults[key]
}

func SetConfigValue(key, value string, global bool) error {
	if global {
		configPath, err := GlobalConfigPath()
		if err != nil {
			return err
		}
		globalConfig[key] = value
		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
		return saveYAML(configPath, globalConfig)
	}
	localConfig[key] = value
	return saveYAML(filepath.Join(localDir, LocalConfigFile), localConfig)
}

// Keys lists every key with a value, sorted.
func Keys() []string {
	seen := map[string]bool{}
	for _, m := range []map[string]string{defaults, globalConfig, localConfig} {
		for k := range m {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bases returns the configured integration branches.
func Bases() branch.Bases {
	return branch.Bases{
		Develop: GetConfigValue(KeyDevelopBranch),
		Master:  GetConfigValue(KeyMasterBranch),
	}
}

// MaskSecret keeps the last four characters of a secret.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func saveYAML(path string, data map[string]string) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

func loadYAML(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := make(map[string]string)
	if err := yaml.Unmarshal(content, &d); err != nil {
		return nil, err
	}
	return d, nil
}

func reset() {
	globalConfig = make(map[string]string)
	localConfig = make(map[string]string)
	globalLoaded = false
	localDir = "."
}
