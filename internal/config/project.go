package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Project is the `vnproject.toml` devkit manifest — project-level
// settings a human edits, mirroring internal/corelx's
// BuildManifest but for a VN project rather than a compiled ROM.
type Project struct {
	EntryLabel   string   `toml:"entry_label"`
	ScriptFiles  []string `toml:"script_files"`
	SaveDir      string   `toml:"save_dir"`
	WindowWidth  int      `toml:"window_width"`
	WindowHeight int      `toml:"window_height"`
	GameID       string   `toml:"game_id"`
	ContentRatings []string `toml:"content_ratings"`
}

// LoadProject reads and parses a vnproject.toml file.
func LoadProject(path string) (*Project, error) {
	var p Project
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes the project manifest back out in TOML form.
func (p *Project) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := toml.NewEncoder(f)
	return enc.Encode(p)
}
