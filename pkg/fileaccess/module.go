package fileaccess

import (
	"go.uber.org/fx"

	"github.com/anyfile-project/anyfile/pkg/logging"
)

// Params collects the dispatcher's dependencies. Backend packages contribute
// to the "backends" value group from their own fx modules.
type Params struct {
	fx.In

	Logger   logging.Interface
	Backends []Backend `group:"backends"`
}

// ProvideClient assembles the dispatcher from every registered backend.
func ProvideClient(p Params) (*Client, error) {
	return New(p.Logger, p.Backends...)
}

// Module provides the dispatcher client as an fx module. Combine it with the
// backend modules (gcs.Module, local.Module, web.Module) to serve all address
// kinds.
var Module = fx.Provide(ProvideClient)
