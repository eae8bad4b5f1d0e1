package main

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/anyfile-project/anyfile/pkg/configutils"
	"github.com/anyfile-project/anyfile/pkg/fileaccess"
	"github.com/anyfile-project/anyfile/pkg/fileaccess/gcs"
	"github.com/anyfile-project/anyfile/pkg/fileaccess/local"
	"github.com/anyfile-project/anyfile/pkg/fileaccess/web"
	"github.com/anyfile-project/anyfile/pkg/logging"
)

const startTimeout = 30 * time.Second

// runWithClient assembles the full dispatcher (all three backends) and runs
// the action against it.
func runWithClient(action func(ctx context.Context, client *fileaccess.Client) error) error {
	var client *fileaccess.Client

	app := fx.New(
		fx.NopLogger,
		configutils.ProvideViper("ANYFILE", rootCmd.PersistentFlags(), configFilePath),
		logging.Module,
		gcs.Module,
		local.Module,
		web.Module,
		fileaccess.Module,
		fx.Populate(&client),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), startTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	return action(context.Background(), client)
}
