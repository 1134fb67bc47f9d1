package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/b64converter/errz"
	"github.com/deepnoodle-ai/b64converter/internal/logging"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "B64C"
	configName = ".b64converter"
)

// bindConfig layers flags, B64C_* environment variables and the optional
// config file into v, then applies global settings.
func bindConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := readConfigFile(v); err != nil {
		return err
	}
	processGlobalFlags(v)
	return nil
}

func readConfigFile(v *viper.Viper) error {
	explicit := v.GetString("config")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return nil
		}
		return errz.Usagef("config: %v", err)
	}
	return nil
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags(v *viper.Viper) {
	if v.GetBool("no-color") {
		color.NoColor = true
	}
}

func newLogger(v *viper.Viper, w io.Writer) (zerolog.Logger, error) {
	pretty := false
	if f, ok := w.(*os.File); ok {
		pretty = logging.IsTerminal(f)
	}
	log, err := logging.New(w, v.GetString("log-level"), pretty)
	if err != nil {
		return log, errz.Usagef("%v", err)
	}
	return log, nil
}
