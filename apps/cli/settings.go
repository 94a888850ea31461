package main

import (
	"strconv"
	"strings"

	"github.com/trezcool/attendance/core/settings"
)

func (cli *commandLine) settingsUsage() {
	cli.println("Usage:")
	cli.println("  settings show")
	cli.println("  settings theme LIGHT|DARK|SYSTEM")
	cli.println("  settings language bn|en|hi")
}

func (cli *commandLine) settingsCmd(args []string) error {
	if len(args) == 0 {
		cli.settingsUsage()
		return errHelp
	}
	switch args[0] {
	case "show":
		s := cli.settings.Get()
		cli.field("Language", string(s.Language))
		cli.field("Theme", string(s.Theme))
		cli.field("Logged in", strconv.FormatBool(s.LoggedIn))
		return nil
	case "theme":
		if len(args) != 2 {
			cli.settingsUsage()
			return errHelp
		}
		theme := settings.ThemeFromName(strings.ToUpper(args[1]))
		if err := cli.settings.SetTheme(theme); err != nil {
			return err
		}
		cli.success("Theme set to " + string(theme))
		return nil
	case "language":
		if len(args) != 2 {
			cli.settingsUsage()
			return errHelp
		}
		lang := settings.LanguageFromCode(strings.ToLower(args[1]))
		if err := cli.settings.SetLanguage(lang); err != nil {
			return err
		}
		cli.success("Language set to " + string(lang))
		return nil
	default:
		cli.settingsUsage()
		return errHelp
	}
}
