// Package config loads project-level analysis settings from symgraph.yaml,
// environment variables and flag overrides, in that precedence order
// (later wins).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds project-level analysis configuration.
type Settings struct {
	// Root is the project root used for package resolution. Defaults to
	// the analyzed directory.
	Root string `mapstructure:"root"`
	// Extensions overrides the resolver's probe list.
	Extensions []string `mapstructure:"extensions"`
	// Workers bounds parallel parsing. Zero means GOMAXPROCS.
	Workers int `mapstructure:"workers"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"logLevel"`
	// Output is the default report path for the analyze command.
	Output string `mapstructure:"output"`
	// MCPAddr is the listen address for the MCP server.
	MCPAddr string `mapstructure:"mcpAddr"`
}

// Load reads symgraph.yaml (or .yml) from dir, then applies SYMGRAPH_*
// environment variables. A missing config file yields defaults, not an
// error.
func Load(dir string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("symgraph")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("logLevel", "info")
	v.SetDefault("mcpAddr", "localhost:8391")

	v.SetEnvPrefix("SYMGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}
