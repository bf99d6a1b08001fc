package banyan

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Prefs holds engine preferences (window size, vsync, debug overlays).
// Persisted across runs. Game save data is separate and handled elsewhere.
type Prefs struct {
	WindowWidth  int   `yaml:"window_width"`
	WindowHeight int   `yaml:"window_height"`
	Fullscreen   bool  `yaml:"fullscreen"`
	VSync        bool  `yaml:"vsync"`
	ShowFPS      bool  `yaml:"show_fps"`
	Debug        bool  `yaml:"debug"`
	ClearColor   Color `yaml:"clear_color"`
}

// DefaultPrefs returns default engine preferences (windowed 1280x720, vsync
// on, overlays off).
func DefaultPrefs() Prefs {
	return Prefs{
		WindowWidth:  1280,
		WindowHeight: 720,
		VSync:        true,
		ClearColor:   Color{A: 1},
	}
}

// LoadPrefs reads preferences from the YAML file at path. If the file is
// missing or invalid, returns DefaultPrefs() and does not create a file.
func LoadPrefs(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultPrefs(), nil
	}
	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return DefaultPrefs(), nil
	}
	return p, nil
}

// SavePrefs writes preferences to the YAML file at path, creating the parent
// directory if needed.
func SavePrefs(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
