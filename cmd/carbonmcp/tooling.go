package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnana997/carbonmcp/catalogs"
	"github.com/gnana997/carbonmcp/pkg/assets"
	"github.com/gnana997/carbonmcp/pkg/generate"
	"github.com/gnana997/carbonmcp/pkg/loader"
)

type scanAssetsOptions struct {
	nodeModules string
	outDir      string
}

func newScanAssetsCommand(a *app) *cobra.Command {
	opts := scanAssetsOptions{nodeModules: "node_modules"}
	cmd := &cobra.Command{
		Use:   "scan-assets",
		Short: "Build icons.json and pictograms.json from installed Carbon packages",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.scanAssets(opts)
		},
	}
	cmd.Flags().StringVar(&opts.nodeModules, "node-modules", opts.nodeModules, "node_modules directory holding the @carbon packages")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "output directory (default: the configured icons and pictograms paths)")
	return cmd
}

func (a *app) scanAssets(opts scanAssetsOptions) error {
	res, err := assets.NewScanner(opts.nodeModules, a.logger).Scan()
	if err != nil {
		return err
	}

	sources := a.sources()
	iconsPath, pictogramsPath := sources.Icons, sources.Pictograms
	if opts.outDir != "" {
		iconsPath = filepath.Join(opts.outDir, loader.IconsFile)
		pictogramsPath = filepath.Join(opts.outDir, loader.PictogramsFile)
	}

	if err := loader.WriteSnapshot(iconsPath, res.Icons); err != nil {
		return err
	}
	if err := loader.WriteSnapshot(pictogramsPath, res.Pictograms); err != nil {
		return err
	}

	a.logger.Info("assets written",
		zap.Int("icons", len(res.Icons)),
		zap.String("icons_origin", string(res.IconOrigin)),
		zap.Int("pictograms", len(res.Pictograms)),
		zap.String("pictograms_origin", string(res.PictogramOrigin)))
	fmt.Fprintf(a.stdout, "Wrote %d icons to %s (%s)\n", len(res.Icons), iconsPath, res.IconOrigin)
	fmt.Fprintf(a.stdout, "Wrote %d pictograms to %s (%s)\n", len(res.Pictograms), pictogramsPath, res.PictogramOrigin)
	return nil
}

type genComponentsOptions struct {
	seed       string
	typesDir   string
	importBase string
	workers    int
	out        string
}

func newGenComponentsCommand(a *app) *cobra.Command {
	opts := genComponentsOptions{importBase: generate.DefaultImportBase}
	cmd := &cobra.Command{
		Use:   "gen-components",
		Short: "Build components.json from a seed file and TypeScript declarations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.genComponents(opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.seed, "seed", "", "seed file (JSON or YAML); the bundled Carbon seed when empty")
	flags.StringVar(&opts.typesDir, "types-dir", "", "directory searched for .d.ts files; props are not extracted when empty")
	flags.StringVar(&opts.importBase, "import-base", opts.importBase, "package prefix of generated import paths")
	flags.IntVar(&opts.workers, "workers", 0, "parser workers (0 = based on CPU count)")
	flags.StringVar(&opts.out, "out", "", "output file (default: the configured components path)")
	return cmd
}

func (a *app) genComponents(opts genComponentsOptions) error {
	genOpts := generate.Options{
		SeedPath:   opts.seed,
		TypesDir:   opts.typesDir,
		ImportBase: opts.importBase,
		Workers:    opts.workers,
		Logger:     a.logger,
	}
	if opts.seed == "" {
		seed, err := generate.ParseSeed("carbon-seed.json", catalogs.CarbonSeedJSON)
		if err != nil {
			return err
		}
		genOpts.Seed = seed
	}

	components, report, err := generate.Generate(genOpts)
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = a.sources().Components
	}
	if err := generate.Write(out, components); err != nil {
		return err
	}

	a.logger.Info("components written",
		zap.String("path", out),
		zap.Int("components", report.Components),
		zap.Int("files_scanned", report.FilesScanned),
		zap.Int("files_failed", report.FilesFailed),
		zap.Int("with_extracted_props", report.WithExtractedProps),
		zap.Int64("duration_ms", report.DurationMs))
	fmt.Fprintf(a.stdout, "Wrote %d components to %s (%d with extracted props)\n",
		report.Components, out, report.WithExtractedProps)
	return nil
}
