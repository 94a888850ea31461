package settings

import (
	"context"
	"strings"
)

type Language string

const (
	LanguageBangla  Language = "bn"
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

var Languages = []Language{LanguageBangla, LanguageEnglish, LanguageHindi}

// LanguageFromCode returns the language of code, or English for unknown codes.
func LanguageFromCode(code string) Language {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range Languages {
		if string(l) == code {
			return l
		}
	}
	return LanguageEnglish
}

type Theme string

const (
	ThemeLight  Theme = "LIGHT"
	ThemeDark   Theme = "DARK"
	ThemeSystem Theme = "SYSTEM"
)

var Themes = []Theme{ThemeLight, ThemeDark, ThemeSystem}

// ThemeFromName returns the theme called name, or ThemeSystem for unknown names.
func ThemeFromName(name string) Theme {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, t := range Themes {
		if string(t) == name {
			return t
		}
	}
	return ThemeSystem
}

type Settings struct {
	Language Language `json:"language" mapstructure:"language"`
	Theme    Theme    `json:"theme" mapstructure:"theme"`
	LoggedIn bool     `json:"logged_in" mapstructure:"loggedIn"`
}

func Defaults() Settings {
	return Settings{Language: LanguageEnglish, Theme: ThemeSystem}
}

// Store persists the user preferences outside of the database.
// Watch emits the current settings first, then every change.
type Store interface {
	Get() Settings
	SetLanguage(lang Language) error
	SetTheme(theme Theme) error
	SetLoggedIn(loggedIn bool) error
	Watch(ctx context.Context) <-chan Settings
}
