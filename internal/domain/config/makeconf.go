package config

import (
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// MakeConfName is the settings file name.
const MakeConfName = "make.conf"

// Loader reads make.conf files through a ports.FileSystem.
type Loader struct {
	fs ports.FileSystem
}

// NewLoader creates a new Loader.
func NewLoader(fs ports.FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load overlays the make.conf at path onto base. Keys absent from the file
// keep their base values.
func (l *Loader) Load(path string, base Settings) (Settings, error) {
	if !l.fs.Exists(path) {
		return base, NewConfigNotFoundError(path)
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return base, NewConfigParseError(path, err)
	}
	return ParseMakeConf(data, base)
}

// Find returns the first make.conf in dirs.
func (l *Loader) Find(dirs []string) (string, bool) {
	for _, dir := range dirs {
		path := filepath.Join(dir, MakeConfName)
		if l.fs.Exists(path) {
			return path, true
		}
	}
	return "", false
}

// ParseMakeConf overlays make.conf content onto base. Only the top-level
// section is read; quoted values are unquoted.
func ParseMakeConf(data []byte, base Settings) (Settings, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		SpaceBeforeInlineComment:  true,
		UnescapeValueDoubleQuotes: true,
	}, data)
	if err != nil {
		return base, NewConfigParseError(MakeConfName, err)
	}

	s := base
	sec := cfg.Section(ini.DefaultSection)
	if sec.HasKey(KeyMakeOpts) {
		s.MakeOpts = sec.Key(KeyMakeOpts).String()
	}
	if sec.HasKey(KeyUse) {
		s.Use = strings.Fields(sec.Key(KeyUse).String())
	}
	if sec.HasKey(KeyFeatures) {
		s.Features = strings.Fields(sec.Key(KeyFeatures).String())
	}
	if sec.HasKey(KeyTmpDir) {
		s.TmpDir = sec.Key(KeyTmpDir).String()
	}
	if sec.HasKey(KeyEclassDir) {
		s.EclassDir = sec.Key(KeyEclassDir).String()
	}
	if sec.HasKey(KeyShell) {
		s.Shell = sec.Key(KeyShell).String()
	}
	if sec.HasKey(KeyPath) {
		s.SearchPath = sec.Key(KeyPath).String()
	}

	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}

// Validate checks settings that later stages rely on.
func (s Settings) Validate() error {
	if s.TmpDir == "" {
		return NewConfigInvalidError(KeyTmpDir, "build directory must not be empty")
	}
	if s.Shell == "" {
		return NewConfigInvalidError(KeyShell, "shell must not be empty")
	}
	return nil
}
