package resolve

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/bbake/internal/config"
)

// Kind is the provenance of a profile file.
type Kind string

const (
	// KindStandard profiles ship with the tool under <tuskdir>/configs.
	KindStandard Kind = "standard"
	// KindUser profiles are supplied by the caller relative to the launch dir.
	KindUser Kind = "user"
)

// Profile is one candidate profile file.
type Profile struct {
	Path string
	Kind Kind
}

// Profiles returns the candidate profiles in application order; later
// entries override earlier ones. tuskdir and launchdir must be absolute.
func Profiles(tuskdir, launchdir, consensus, deploymode, profile string) []Profile {
	configs := filepath.Join(tuskdir, "configs")
	ps := []Profile{
		{filepath.Join(configs, "default.json"), KindStandard},
		{filepath.Join(configs, deploymode+"-default.json"), KindStandard},
		{filepath.Join(configs, consensus+"-default.json"), KindStandard},
		{filepath.Join(configs, consensus+"-"+deploymode+"-default.json"), KindStandard},
	}
	if profile == "" {
		return ps
	}
	return append(ps,
		// -p 8 selects the 8 node profile for the consensus and deploy mode
		Profile{filepath.Join(configs, consensus+"-"+deploymode+"-"+profile), KindStandard},
		Profile{resolvePath(configs, profile), KindStandard},
		Profile{resolvePath(launchdir, profile), KindUser},
	)
}

// loadProfile returns the profile document, or nil if there is no regular
// file at p.Path.
func loadProfile(p Profile) (config.Document, error) {
	info, err := os.Stat(p.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("checking %s profile: %w", p.Kind, err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}
	doc, err := config.Load(p.Path)
	if err != nil {
		return nil, fmt.Errorf("loading %s profile: %w", p.Kind, err)
	}
	return doc, nil
}

// resolvePath joins p onto base unless p is already absolute.
func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
