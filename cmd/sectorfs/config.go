package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/infinivision/sectorfs/fs"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "SECTORFS"
	appName      = "sectorfs"
)

type Config struct {
	Image      string `envconfig:"SECTORFS_IMAGE"       yaml:"image"`
	CacheSize  int    `envconfig:"SECTORFS_CACHE_SIZE"  yaml:"cacheSize"`
	SyncWrites bool   `envconfig:"SECTORFS_SYNC_WRITES" yaml:"syncWrites"`
}

// LoadConfig layers the optional YAML file under the environment: file
// values override the built-in defaults, environment variables override
// the file, command line flags override everything.
func LoadConfig() (*Config, error) {
	def := fs.DefaultConfig()
	c := Config{Image: def.Path, CacheSize: def.CacheSize}

	configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE")
	if configFile == "" {
		configFile = filepath.Join(os.Getenv("HOME"), ".config", appName+".yaml")
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling config file: %w", err)
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}
