package settingstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/trezcool/attendance/core/settings"
	"github.com/trezcool/attendance/core/stream"
)

const (
	keyLanguage = "language"
	keyTheme    = "theme"
	keyLoggedIn = "loggedIn"
)

// ViperStore keeps settings in a YAML file.
type ViperStore struct {
	mu    sync.Mutex
	conf  *viper.Viper
	path  string
	value *stream.Value[settings.Settings]
}

var _ settings.Store = (*ViperStore)(nil)

// NewViperStore loads the settings file at path, falling back to the defaults when it does not exist yet.
func NewViperStore(path string) (*ViperStore, error) {
	conf := viper.New()
	conf.SetConfigFile(path)
	conf.SetConfigType("yaml")

	defaults := settings.Defaults()
	conf.SetDefault(keyLanguage, string(defaults.Language))
	conf.SetDefault(keyTheme, string(defaults.Theme))
	conf.SetDefault(keyLoggedIn, defaults.LoggedIn)

	if err := conf.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "reading settings %s", path)
		}
	}

	store := &ViperStore{conf: conf, path: path}
	store.value = stream.NewValue(store.load())
	return store, nil
}

func (s *ViperStore) load() settings.Settings {
	return settings.Settings{
		Language: settings.LanguageFromCode(s.conf.GetString(keyLanguage)),
		Theme:    settings.ThemeFromName(s.conf.GetString(keyTheme)),
		LoggedIn: s.conf.GetBool(keyLoggedIn),
	}
}

func (s *ViperStore) set(key string, val interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conf.Set(key, val)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating settings directory")
	}
	if err := s.conf.WriteConfigAs(s.path); err != nil {
		return errors.Wrapf(err, "writing settings %s", s.path)
	}
	s.value.Set(s.load())
	return nil
}

func (s *ViperStore) Get() settings.Settings {
	return s.value.Get()
}

func (s *ViperStore) SetLanguage(lang settings.Language) error {
	return s.set(keyLanguage, string(settings.LanguageFromCode(string(lang))))
}

func (s *ViperStore) SetTheme(theme settings.Theme) error {
	return s.set(keyTheme, string(settings.ThemeFromName(string(theme))))
}

func (s *ViperStore) SetLoggedIn(loggedIn bool) error {
	return s.set(keyLoggedIn, loggedIn)
}

func (s *ViperStore) Watch(ctx context.Context) <-chan settings.Settings {
	return s.value.Subscribe(ctx)
}
