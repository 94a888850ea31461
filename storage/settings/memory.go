package settingstore

import (
	"context"

	"github.com/trezcool/attendance/core/settings"
	"github.com/trezcool/attendance/core/stream"
)

// MemoryStore keeps settings for the lifetime of the process only.
type MemoryStore struct {
	value *stream.Value[settings.Settings]
}

var _ settings.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{value: stream.NewValue(settings.Defaults())}
}

func (s *MemoryStore) Get() settings.Settings { return s.value.Get() }

func (s *MemoryStore) SetLanguage(lang settings.Language) error {
	s.value.Update(func(st settings.Settings) settings.Settings {
		st.Language = settings.LanguageFromCode(string(lang))
		return st
	})
	return nil
}

func (s *MemoryStore) SetTheme(theme settings.Theme) error {
	s.value.Update(func(st settings.Settings) settings.Settings {
		st.Theme = settings.ThemeFromName(string(theme))
		return st
	})
	return nil
}

func (s *MemoryStore) SetLoggedIn(loggedIn bool) error {
	s.value.Update(func(st settings.Settings) settings.Settings {
		st.LoggedIn = loggedIn
		return st
	})
	return nil
}

func (s *MemoryStore) Watch(ctx context.Context) <-chan settings.Settings {
	return s.value.Subscribe(ctx)
}
