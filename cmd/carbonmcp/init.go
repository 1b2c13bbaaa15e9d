package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/carbonmcp/catalogs"
	"github.com/gnana997/carbonmcp/pkg/loader"
)

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write the bundled Carbon catalog into a data directory",
		Long: "Write the bundled Carbon catalog snapshot files into dir (default: the\n" +
			"configured data directory, else ./" + loader.DefaultDataDir + "). Existing files are kept.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := a.v.GetString(keyDataDir)
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				dir = loader.DefaultDataDir
			}
			return a.initData(dir)
		},
	}
}

func (a *app) initData(dir string) error {
	res, err := catalogs.Install(dir)
	if err != nil {
		return err
	}
	for _, path := range res.Written {
		fmt.Fprintf(a.stdout, "  + %s\n", path)
	}
	for _, path := range res.Skipped {
		fmt.Fprintf(a.stdout, "  = %s (exists, kept)\n", path)
	}
	fmt.Fprintf(a.stdout, "Catalog ready in %s. Start the server with: carbonmcp serve --data-dir %s\n", dir, dir)
	return nil
}
