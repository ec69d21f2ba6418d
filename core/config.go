package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env          string
	AppName      string
	Build        string
	Debug        bool
	TestMode     bool
	DBPath       string
	BackupDir    string
	PageSize     int
	RollbarToken string
}

// LoadConfig reads the configuration for the current ENV (DEV by default).
// Values come from the environment, prefixed with the ENV name (ie. DEV_DB_PATH),
// optionally seeded from config/.env.<env>.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "SvedUch")
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("db_path", "sveduch.db")
	v.SetDefault("backup_dir", "backups")
	v.SetDefault("page_size", 50)
	v.SetDefault("rollbar_token", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	confDir := os.Getenv("SVEDUCH_CONFIG_DIR")
	if confDir == "" {
		confDir = "config"
	}
	dotEnvPath := filepath.Join(confDir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		DBPath:       v.GetString("db_path"),
		BackupDir:    v.GetString("backup_dir"),
		PageSize:     v.GetInt("page_size"),
		RollbarToken: v.GetString("rollbar_token"),
	}
	if conf.PageSize <= 0 {
		conf.PageSize = 50
	}
	return conf, nil
}
