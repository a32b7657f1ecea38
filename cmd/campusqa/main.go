package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/peroute/hackwest-project/internal/config"
)

func main() {
	var env string
	var root = &cobra.Command{
		Use:          "campusqa",
		Short:        "Campus resource question answering service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&env, "env", "e", config.GetEnv(), "config environment (config/<env>.yaml)")

	root.AddCommand(
		serveCMD(&env),
		migrateCMD(&env),
		importCMD(&env),
		crawlCMD(&env),
		pruneCMD(&env),
		versionCMD(),
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
