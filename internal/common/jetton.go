package common

import (
	"fmt"
	"os"
	"path/filepath"

	"ton-faucet-go/internal/faucet"
	"ton-faucet-go/internal/models"

	"gopkg.in/yaml.v2"
)

const (
	defaultSymbol      = "CHAMBY"
	defaultDecimals    = 9
	defaultExplorerURL = "https://tonviewer.com"
)

type jettonFile struct {
	Jetton models.Jetton `yaml:"jetton"`
}

// LoadJetton resolves the distributed token descriptor. A jetton.yaml file
// wins when present; otherwise the descriptor is assembled from the env
// config with CHAMBY defaults.
func LoadJetton(cfg *models.Config) (models.Jetton, error) {
	jetton, found, err := loadJettonFile(cfg.Faucet.JettonFile)
	if err != nil {
		return models.Jetton{}, err
	}
	if !found {
		jetton = models.Jetton{MasterAddress: cfg.Faucet.JettonContract}
	}

	if jetton.Symbol == "" {
		jetton.Symbol = defaultSymbol
	}
	if jetton.Decimals == 0 {
		jetton.Decimals = defaultDecimals
	}
	if jetton.ExplorerURL == "" {
		jetton.ExplorerURL = defaultExplorerURL
	}

	if jetton.MasterAddress == "" {
		return models.Jetton{}, fmt.Errorf("jetton master address is not configured")
	}
	if !faucet.ValidAddress(faucet.NormalizeAddress(jetton.MasterAddress)) {
		return models.Jetton{}, fmt.Errorf("invalid jetton master address: %q", jetton.MasterAddress)
	}
	if jetton.Decimals < 0 {
		return models.Jetton{}, fmt.Errorf("jetton decimals cannot be negative, got %d", jetton.Decimals)
	}

	return jetton, nil
}

func loadJettonFile(file string) (models.Jetton, bool, error) {
	if file == "" {
		return models.Jetton{}, false, nil
	}

	path := file
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return models.Jetton{}, false, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, file)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return models.Jetton{}, false, nil
	}
	if err != nil {
		return models.Jetton{}, false, fmt.Errorf("unable to read %s: %w", file, err)
	}

	var parsed jettonFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return models.Jetton{}, false, fmt.Errorf("unable to parse %s: %w", file, err)
	}

	return parsed.Jetton, true, nil
}
