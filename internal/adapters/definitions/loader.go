package definitions

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/infrastructure/config"
)

// ParseWorldYAML decodes and validates a world payload.
// Unknown keys are rejected so typos in authored data surface at load time.
func ParseWorldYAML(data []byte) (*World, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("definitions: payload is empty")
	}

	var world World
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&world); err != nil {
		return nil, fmt.Errorf("definitions: decode: %w", err)
	}

	if err := config.NewValidator().Validate(&world); err != nil {
		return nil, fmt.Errorf("definitions: %w", err)
	}
	if err := world.check(); err != nil {
		return nil, fmt.Errorf("definitions: %w", err)
	}
	return &world, nil
}

// LoadWorldFile reads a YAML file from disk and returns the parsed world
func LoadWorldFile(path string) (*World, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("definitions: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("definitions: %s is a directory", path)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("definitions: read %s: %w", path, err)
	}
	world, err := ParseWorldYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return world, nil
}

// FileSource loads process definitions from a world or definitions-only YAML file
type FileSource struct {
	Path string
}

// NewFileSource creates a definition source backed by a file
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// LoadDefinitions implements processing.DefinitionSource
func (s *FileSource) LoadDefinitions() ([]*processing.ProcessDefinition, error) {
	world, err := LoadWorldFile(s.Path)
	if err != nil {
		return nil, err
	}
	return world.Definitions, nil
}

var _ processing.DefinitionSource = (*FileSource)(nil)
