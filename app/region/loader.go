package region

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of region configurations
type Loader struct {
	regionsDir string
}

// NewLoader creates a new region configuration loader
func NewLoader(regionsDir string) *Loader {
	return &Loader{regionsDir: regionsDir}
}

// LoadAll loads all YAML region files from the regions directory, keyed by region ID
func (l *Loader) LoadAll() (map[string]*Region, error) {
	regions := make(map[string]*Region)

	if _, err := os.Stat(l.regionsDir); os.IsNotExist(err) {
		return regions, nil
	}

	files, err := filepath.Glob(filepath.Join(l.regionsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.regionsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		region, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(region); err != nil {
			return nil, fmt.Errorf("invalid region %s: %w", file, err)
		}

		if _, exists := regions[region.ID]; exists {
			return nil, fmt.Errorf("duplicate region ID %q in %s", region.ID, file)
		}

		regions[region.ID] = region
		slog.Debug("Loaded region configuration", "file", file, "region", region.ID)
	}

	return regions, nil
}

// loadFile loads a single YAML region file
func (l *Loader) loadFile(path string) (*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var region Region
	if err := yaml.Unmarshal(data, &region); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&region)

	return &region, nil
}

// setDefaults applies default values to a region configuration
func (l *Loader) setDefaults(region *Region) {
	if region.Search.Language == "" {
		region.Search.Language = "en"
	}
	if region.Trends.Window == "" {
		region.Trends.Window = "now 4-H"
	}
	if region.Timezone == "" {
		region.Timezone = "UTC"
	}
	if region.Search.AcceptLanguage == "" {
		region.Search.AcceptLanguage = region.Search.Language + ";q=0.9"
	}
}

// validate validates a region configuration
func (l *Loader) validate(region *Region) error {
	if region.ID == "" {
		return fmt.Errorf("region ID is required")
	}
	if region.Tag == "" {
		return fmt.Errorf("region tag is required")
	}
	if region.Search.Query == "" {
		return fmt.Errorf("search query is required")
	}
	if region.Search.Country == "" {
		return fmt.Errorf("search gl country code is required")
	}
	if region.Trends.Topic == "" {
		return fmt.Errorf("trends topic is required")
	}
	if region.Trends.Geo == "" {
		return fmt.Errorf("trends geo is required")
	}
	if _, err := time.LoadLocation(region.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", region.Timezone, err)
	}
	return nil
}
