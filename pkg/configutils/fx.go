package configutils

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// ProvideViper provides an fx module that creates a viper instance reading
// from the environment (with the given prefix) and, when configFilePath is
// non-empty, from a config file.
func ProvideViper(envPrefix string, pflags *pflag.FlagSet, configFilePath string) fx.Option {
	return fx.Provide(func() (*viper.Viper, error) {
		v := viper.New()

		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		if pflags != nil {
			if debug := pflags.Lookup("debug"); debug != nil {
				if err := v.BindPFlag("logging.debug", debug); err != nil {
					return nil, fmt.Errorf("can't bind debug flag: %w", err)
				}
			}
		}

		if configFilePath != "" {
			if err := LoadFile(v, configFilePath); err != nil {
				return nil, fmt.Errorf("cannot read config file: %w", err)
			}
		}

		return v, nil
	})
}
