package application

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

//go:embed seed/services.yaml
var defaultServicesYAML []byte

type seedFile struct {
	Services []seedEntry `yaml:"services"`
}

type seedEntry struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Category    string   `yaml:"category"`
	Features    []string `yaml:"features"`
	Icon        string   `yaml:"icon"`
	Highlight   bool     `yaml:"highlight"`
	ImagePath   string   `yaml:"imagePath"`
}

// DefaultServices returns the built-in seed catalog. Each call returns a
// fresh copy.
func DefaultServices() ([]model.ServiceRecord, error) {
	return ParseSeed(defaultServicesYAML)
}

// ParseSeed decodes a seed catalog document. Records carry no ids.
func ParseSeed(data []byte) ([]model.ServiceRecord, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}

	records := make([]model.ServiceRecord, 0, len(file.Services))
	for _, e := range file.Services {
		features := e.Features
		if features == nil {
			features = []string{}
		}
		records = append(records, model.ServiceRecord{
			Title:       e.Title,
			Description: e.Description,
			Price:       e.Price,
			Category:    model.Category(e.Category),
			Features:    features,
			Icon:        e.Icon,
			Highlight:   e.Highlight,
			ImagePath:   e.ImagePath,
		})
	}
	return records, nil
}
