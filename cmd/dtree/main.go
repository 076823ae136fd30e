package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootCmdConfig struct {
	verbose    bool
	log        *zap.SugaredLogger
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func main() {
	config := &rootCmdConfig{}
	err := cliParser(config).Execute()
	config.Logger().Sync()
	if err != nil {
		os.Exit(1)
	}
}

func cliParser(config *rootCmdConfig) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dtree",
		Short: "dtree is a tool to learn decision trees",
		Long:  `A tool to learn binary-split decision trees from your data, prune them and test how well they classify`,
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress and per attribute gains")
	rootCmd.AddCommand(versionCmd(), runCmd(config), setCmd(config))
	return rootCmd
}

func (rc *rootCmdConfig) Context() context.Context {
	rc.setContextAndCancelFunc()
	return rc.ctx
}

func (rc *rootCmdConfig) ContextCancelFunc() context.CancelFunc {
	rc.setContextAndCancelFunc()
	return rc.cancelFunc
}

func (rc *rootCmdConfig) setContextAndCancelFunc() {
	if rc.ctx == nil {
		rc.ctx, rc.cancelFunc = context.WithCancel(context.Background())
	}
}
