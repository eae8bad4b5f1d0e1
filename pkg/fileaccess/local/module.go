package local

import (
	"github.com/spf13/afero"
	"go.uber.org/fx"

	"github.com/anyfile-project/anyfile/pkg/fileaccess"
	"github.com/anyfile-project/anyfile/pkg/logging"
)

// ProvideBackend creates the local backend over the OS filesystem.
func ProvideBackend(logger logging.Interface) *Backend {
	return New(afero.NewOsFs(), logger)
}

// Module contributes the local backend to the dispatcher's backend group.
var Module = fx.Provide(
	fx.Annotate(ProvideBackend,
		fx.As(new(fileaccess.Backend)),
		fx.ResultTags(`group:"backends"`),
	),
)
