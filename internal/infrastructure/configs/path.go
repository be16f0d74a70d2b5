package configs

import (
	"flag"
	"io"
	"os"

	"github.com/hilthontt/burnroom/internal/infrastructure/env"
)

const ConfigEnvKey = "BURNROOM_CONFIG"

var candidates = []string{
	"./config.yaml",
	"./config.yml",
	"../../config.yaml", // keep for local dev
	"/etc/burnroom/config.yaml",
	"/app/config.yaml", // common in Docker
}

// DetermineConfigPath resolves the config file from --config, then
// BURNROOM_CONFIG, then the well-known locations. An empty result means
// the service runs on defaults and environment overrides only.
func DetermineConfigPath(args []string) string {
	fs := flag.NewFlagSet("burnroom", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configPath string
	fs.StringVar(&configPath, "config", "", "path to config file")
	_ = fs.Parse(args)

	if configPath == "" {
		configPath = env.GetString(ConfigEnvKey, "")
	}

	if configPath == "" {
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
