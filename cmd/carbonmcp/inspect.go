package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/gnana997/carbonmcp/pkg/catalog"
	"github.com/gnana997/carbonmcp/pkg/loader"
	"github.com/gnana997/carbonmcp/pkg/render"
)

const maxWidth = 80

type inspectOptions struct {
	raw   bool
	style string
	width int
}

func newInspectCommand(a *app) *cobra.Command {
	opts := inspectOptions{style: "auto", width: maxWidth}
	cmd := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Show a component's documentation and props",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.inspect(args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the markdown without terminal styling")
	cmd.Flags().StringVar(&opts.style, "style", opts.style, "glamour style (auto, dark, light, notty)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "word wrap width")
	return cmd
}

func (a *app) inspect(name string, opts inspectOptions) error {
	store := catalog.NewStore()
	if _, err := loader.New(store, a.sources(), loader.WithLogger(a.logger)).Load(); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	comp, err := catalog.NewQueryService(store).Component(name)
	if err != nil {
		return err
	}
	doc := render.ComponentMarkdown(comp)
	if opts.raw {
		_, err := fmt.Fprint(a.stdout, doc)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(opts.style),
		glamour.WithWordWrap(opts.width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", comp.Name, err)
	}
	_, err = fmt.Fprint(a.stdout, out)
	return err
}
