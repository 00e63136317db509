package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the configuration file looked up by ResolvePath.
const FileName = "tgrelay.yaml"

// ResolvePath finds the configuration file: $XDG_CONFIG_HOME/tgrelay
// (or ~/.config/tgrelay), then the working directory.
func ResolvePath() (string, error) {
	candidates := SearchPaths()
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

// SearchPaths lists the candidate configuration paths in lookup order.
func SearchPaths() []string {
	var candidates []string
	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "tgrelay", FileName))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "tgrelay", FileName))
	}
	return append(candidates, FileName)
}
