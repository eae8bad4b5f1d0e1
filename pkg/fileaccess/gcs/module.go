package gcs

import (
	"context"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/anyfile-project/anyfile/pkg/fileaccess"
	"github.com/anyfile-project/anyfile/pkg/logging"
)

// ConfigKey is the root viper key for this backend.
var ConfigKey = "gcs"

// ProvideBackend creates the GCS backend from viper configuration.
func ProvideBackend(lc fx.Lifecycle, v *viper.Viper, logger logging.Interface) (*Backend, error) {
	config := Config{
		ProjectID:       v.GetString(ConfigKey + ".project_id"),
		Location:        v.GetString(ConfigKey + ".location"),
		Endpoint:        v.GetString(ConfigKey + ".endpoint"),
		CredentialsFile: v.GetString(ConfigKey + ".credentials_file"),
	}

	backend, err := New(context.Background(), config, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return backend.Close() },
	})
	return backend, nil
}

// Module contributes the GCS backend to the dispatcher's backend group.
var Module = fx.Provide(
	fx.Annotate(ProvideBackend,
		fx.As(new(fileaccess.Backend)),
		fx.ResultTags(`group:"backends"`),
	),
)
