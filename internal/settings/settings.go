// Package settings persists the small remembered-state dictionary of the
// birdlog CLI: the last records shown, the preferred date separator, the
// storage backend, and an optional data directory override. Values live in
// settings.yaml under the config directory. A corrupt file is replaced by
// in-memory defaults rather than aborting the command.
package settings

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/birdlog/pkg/types"
)

const (
	settingsFileName = "settings"
	settingsFileType = "yaml"
	settingsFileExt  = "settings.yaml"
)

// Keys the store recognizes. Set rejects anything else.
const (
	KeyLastSpecies   = "last_species_viewed"
	KeyLastSighting  = "last_sighting_viewed"
	KeyDateSeparator = "date_separator"
	KeyBackend       = "backend"
	KeyDataDir       = "data_dir"
)

// defaults maps every known key to its starting value.
var defaults = map[string]any{
	KeyLastSpecies:   1,
	KeyLastSighting:  1,
	KeyDateSeparator: ".",
	KeyBackend:       "jsonl",
	KeyDataDir:       "",
}

// Keys returns every recognized key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Settings wraps a viper instance bound to settings.yaml.
type Settings struct {
	v    *viper.Viper
	path string
}

// newViper builds a viper instance carrying the defaults.
func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads settings.yaml from the config directory, creating the directory
// if needed. A missing file yields the defaults; an unreadable or corrupt
// file also yields the defaults, in memory only.
func Load(configDir string) (*Settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, types.Wrap(types.IOFailure, err, "creating config directory %s", configDir)
	}

	v := newViper()
	v.SetConfigName(settingsFileName)
	v.SetConfigType(settingsFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Corrupt settings fall back to defaults.
			v = newViper()
		}
	}

	return &Settings{v: v, path: filepath.Join(configDir, settingsFileExt)}, nil
}

// Number returns the integer value of a key; a stored value that does not
// parse reads as zero.
func (s *Settings) Number(key string) int {
	return s.v.GetInt(key)
}

// Bool returns the boolean value of a key.
func (s *Settings) Bool(key string) bool {
	return s.v.GetBool(key)
}

// String returns the string value of a key.
func (s *Settings) String(key string) string {
	return s.v.GetString(key)
}

// Set assigns a value to a known key. Unknown keys are rejected with
// ErrKeyNotFound.
func (s *Settings) Set(key string, value any) error {
	if _, ok := defaults[key]; !ok {
		return types.ErrKeyNotFound
	}
	s.v.Set(key, value)
	return nil
}

// Save writes the current values back to settings.yaml.
func (s *Settings) Save() error {
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return types.Wrap(types.IOFailure, err, "writing %s", s.path)
	}
	return nil
}
