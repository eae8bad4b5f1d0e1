package logging

import (
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideZapLogger builds the process logger from the "logging" viper key.
func ProvideZapLogger(v *viper.Viper) (*zap.Logger, error) {
	config, err := NewConfig(WithViper(v))
	if err != nil {
		return nil, err
	}
	return NewLogger(config)
}

// ProvideInterface adapts the zap logger to the logging Interface.
func ProvideInterface(logger *zap.Logger) Interface {
	return ForZap(logger)
}

// Module loads the logging configuration from Viper and provides both
// *zap.Logger and logging.Interface.
var Module fx.Option = fx.Provide(
	ProvideZapLogger,
	ProvideInterface,
)
