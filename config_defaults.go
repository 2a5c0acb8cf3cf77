package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed defaults/config.yml
var defaultConfigs embed.FS

// initConfig creates the config directory and writes the embedded default
// config.yml, leaving an existing file alone.
func initConfig(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	dst := filepath.Join(dir, "config.yml")
	if _, err := os.Stat(dst); err == nil {
		fmt.Printf("  skip config.yml (already exists)\n")
		return nil
	}

	data, err := defaultConfigs.ReadFile("defaults/config.yml")
	if err != nil {
		return fmt.Errorf("read embedded config.yml: %w", err)
	}

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	fmt.Printf("  created config.yml\n")
	return nil
}
