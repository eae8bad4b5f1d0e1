package web

import (
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/anyfile-project/anyfile/pkg/fileaccess"
	"github.com/anyfile-project/anyfile/pkg/logging"
)

// ConfigKey is the root viper key for this backend.
var ConfigKey = "web"

// ProvideBackend creates the web backend, honoring "web.timeout" when set.
func ProvideBackend(v *viper.Viper, logger logging.Interface) *Backend {
	client := DefaultClient()
	if v.IsSet(ConfigKey + ".timeout") {
		client = &http.Client{Timeout: v.GetDuration(ConfigKey + ".timeout")}
	}
	return New(client, logger)
}

// Module contributes the web backend to the dispatcher's backend group.
var Module = fx.Provide(
	fx.Annotate(ProvideBackend,
		fx.As(new(fileaccess.Backend)),
		fx.ResultTags(`group:"backends"`),
	),
)
