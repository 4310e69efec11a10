package ports

import (
	"fmt"
	"os"
	"path/filepath"
)

// OSPlatform is the default PlatformPort, backed directly by the
// standard library — there is no ecosystem library needed for "find the
// user's config/save directory", since that's exactly what
// os.UserConfigDir/os.UserHomeDir already provide.
type OSPlatform struct {
	AppName string
}

func (p OSPlatform) ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, p.AppName), nil
}

func (p OSPlatform) SaveDir() (string, error) {
	cfg, err := p.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "saves"), nil
}

func (p OSPlatform) Println(args ...any) { fmt.Println(args...) }
