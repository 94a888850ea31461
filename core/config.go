package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		Dir  string
		Name string
	}

	ImageConfig struct {
		MaxWidth  int
		MaxHeight int
	}

	Config struct {
		AppName      string
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string
		WorkDir      string
		DownloadsDir string
		SettingsFile string
		Database     DatabaseConfig
		Image        ImageConfig
	}
)

// Path returns the absolute path of the database file.
func (c DatabaseConfig) Path() string {
	return filepath.Join(c.Dir, c.Name)
}

// AppDownloadsDir returns the "Downloads/<AppName>" folder every export lands in.
func (c *Config) AppDownloadsDir() string {
	return filepath.Join(c.DownloadsDir, c.AppName)
}

func NewConfig() (*Config, error) {
	conf := viper.New()

	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".school-attendance")

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "School Attendance")
	conf.SetDefault("build", "dev")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("dataDir", dataDir)
	conf.SetDefault("dbName", "school_attendance.db")
	conf.SetDefault("downloadsDir", filepath.Join(home, "Downloads"))
	conf.SetDefault("settingsFile", "settings.yaml")
	conf.SetDefault("imageMaxWidth", 600)
	conf.SetDefault("imageMaxHeight", 600)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	case "PROD":
		conf.SetDefault("debug", false)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:      conf.GetString("appName"),
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		RollbarToken: conf.GetString("rollbarToken"),
		WorkDir:      wd,
		DownloadsDir: conf.GetString("downloadsDir"),
		SettingsFile: filepath.Join(conf.GetString("dataDir"), conf.GetString("settingsFile")),
		Database: DatabaseConfig{
			Dir:  conf.GetString("dataDir"),
			Name: conf.GetString("dbName"),
		},
		Image: ImageConfig{
			MaxWidth:  conf.GetInt("imageMaxWidth"),
			MaxHeight: conf.GetInt("imageMaxHeight"),
		},
	}, nil
}
