package inspect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Platform describes the target the dump came from: the same linker and
// board constants the firmware injects into the capture engine. The file
// is optional; without it the tool decodes the record but cannot annotate
// context or bounds.
type Platform struct {
	// RegionBase is the persistent region's base address on target.
	RegionBase uint32 `yaml:"region_base"`
	// RegionSize is the persistent region's declared capacity.
	RegionSize uint32 `yaml:"region_size"`
	// MainStackTop is the link-time top of the main stack.
	MainStackTop uint32 `yaml:"main_stack_top"`
	// TaskStackSize is the task-context capture cap.
	TaskStackSize uint32 `yaml:"task_stack_size"`
	// Name labels the target in tool output.
	Name string `yaml:"name"`
}

// LoadPlatform parses a platform description YAML file.
func LoadPlatform(path string) (*Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read platform file: %w", err)
	}
	var p Platform
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse platform file %s: %w", path, err)
	}
	return &p, nil
}
