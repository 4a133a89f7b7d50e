package config_test

import (
	"fmt"

	"github.com/wonny/nvdbdq/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("NVDB endpoint: %s\n", cfg.NVDB.BaseURL)
	fmt.Printf("Default region (fylke): %d\n", cfg.NVDB.DefaultRegion)
	fmt.Printf("Batch size bounds: %d-%d\n", cfg.NVDB.MinObjects, cfg.NVDB.MaxObjects)
}
