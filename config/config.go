package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shar-tools/p3d_browser/p3d"
)

const CONFIG_NAME = "p3d_browser"

func setDefaults() {
	viper.SetDefault("addr", ":8000")
	viper.SetDefault("dir", "")
	viper.SetDefault("encoding", ENCODING_UTF8)
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("maxDepth", p3d.DEFAULT_MAX_DEPTH)
	viper.SetDefault("explicitStack", false)
	viper.SetDefault("out", "./export")
}

// Load sets defaults, reads p3d_browser.yaml from configDir when present and
// lets flags that were set on the command line override both.
func Load(configDir string, flags *pflag.FlagSet) error {
	setDefaults()

	viper.SetConfigName(CONFIG_NAME)
	viper.SetConfigType("yaml")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrapf(err, "error reading config file")
		}
	}

	if flags != nil {
		if err := viper.BindPFlags(flags); err != nil {
			return errors.Wrapf(err, "binding flags")
		}
	}

	return SetEncoding(GetString("encoding"))
}

// DecodeOptions builds decoder options from the loaded configuration.
func DecodeOptions() *p3d.Options {
	return &p3d.Options{
		MaxDepth:      GetInt("maxDepth"),
		ExplicitStack: GetBool("explicitStack"),
		Encoding:      GetEncoding(),
	}
}

func GetString(key string) string {
	return viper.GetString(key)
}

func GetInt(key string) int {
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	return viper.GetBool(key)
}
