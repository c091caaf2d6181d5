// Command inkc is the front-end compiler's CLI: check a source file,
// compile it to a net book, or run it. `run` hands the net book to
// runtime.NoReducer, the only Reducer in this module, so it always
// fails with runtime.ErrNoReducer.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkc/inkc/pkg/compile"
	"github.com/inkc/inkc/pkg/driver"
	"github.com/inkc/inkc/pkg/netir"
	"github.com/inkc/inkc/pkg/reader"
	"github.com/inkc/inkc/pkg/runtime"
	"github.com/inkc/inkc/pkg/surface"
	"github.com/inkc/inkc/pkg/term"
)

type rootFlags struct {
	configPath    string
	preset        string
	adtEncoding   string
	warnMatchOnly bool
	warnUnused    bool
	debug         bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "inkc",
		Short: "Interaction-net front-end compiler",
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", driver.ConfigFileName, "project config file")
	root.PersistentFlags().StringVar(&flags.preset, "preset", "", "compile preset: light or heavy (overrides config)")
	root.PersistentFlags().StringVar(&flags.adtEncoding, "adt-encoding", "", "ADT encoding: scott or tagged-scott (overrides config)")
	root.PersistentFlags().BoolVar(&flags.warnMatchOnly, "warn-match-only-vars", false, "escalate match-only-vars warnings to fatal")
	root.PersistentFlags().BoolVar(&flags.warnUnused, "warn-unused-definition", false, "escalate unused-definition warnings to fatal")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "print the net after every rewrite step during run")

	root.AddCommand(newCheckCmd(flags), newCompileCmd(flags), newRunCmd(flags))
	return root
}

func newCheckCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a source file by compiling it and discarding the nets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := parseFile(args[0])
			if err != nil {
				return err
			}
			book.SetEntrypoint()
			ctx, err := compile.CheckBook(book)
			if err != nil {
				return err
			}
			state := compile.ResolveWarnings(ctx, warnOpts(flags))
			for _, w := range state.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning[%s] %s: %s\n", w.Kind, w.DefName, w.Message)
			}
			if state.Fatal {
				return fmt.Errorf("inkc: a configured warning was escalated to fatal")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newCompileCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a source file to a net book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, _, _, _, err := compileFile(args[0], flags)
			if err != nil {
				return err
			}
			for _, name := range nb.SortedNetNames() {
				net := nb.Nets[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d agents, %d wires, %d pending redexes\n",
					name, len(net.Agents), len(net.Wires), len(net.Redexes))
			}
			return nil
		},
	}
}

func newRunCmd(flags *rootFlags) *cobra.Command {
	var reducer runtime.Reducer = runtime.NoReducer{}
	return &cobra.Command{
		Use:   "run [file]",
		Short: "Compile and reduce a source file's entry point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, _, labels, entry, err := compileFile(args[0], flags)
			if err != nil {
				return err
			}

			opts := runtime.RunOpts{Debug: flags.debug}
			if flags.debug {
				opts.StepHook = driver.NewDebugHook(os.Stdout, labels)
			}

			net, stats, err := reducer.Run(context.Background(), nb, entry, opts)
			if err != nil {
				return fmt.Errorf("inkc: run: %w", err)
			}
			t, errs := reader.ReadBack(net, labels, opts.Linear)
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", t)
			for _, e := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", e.Error())
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "rewrites: %d, elapsed: %v\n", stats.Rewrites, stats.Elapsed)
			return nil
		},
	}
}

func parseFile(path string) (*term.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inkc: reading %s: %w", path, err)
	}
	book, err := surface.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("inkc: parsing %s: %w", path, err)
	}
	return book, nil
}

// compileFile parses, configures, and compiles path, returning the
// entry point's name alongside the usual CompileBook results (SetEntrypoint
// may rename "Main" to "main", so the caller needs this rather than
// assuming "main").
func compileFile(path string, flags *rootFlags) (*netir.NetBook, *netir.HvmcNames, *netir.Labels, string, error) {
	book, err := parseFile(path)
	if err != nil {
		return nil, nil, nil, "", err
	}

	cfg, err := driver.LoadConfig(flags.configPath)
	if err != nil {
		return nil, nil, nil, "", err
	}
	if flags.preset != "" {
		cfg.Preset = flags.preset
	}
	if flags.adtEncoding != "" {
		cfg.AdtEncoding = flags.adtEncoding
	}
	opts, err := driver.ResolveOpts(cfg)
	if err != nil {
		return nil, nil, nil, "", err
	}
	opts.Warn = warnOpts(flags)

	book.SetEntrypoint()
	entry := book.Entrypoint
	nb, names, labels, err := compile.CompileBook(book, opts)
	if err != nil {
		return nil, nil, nil, "", err
	}
	return nb, names, labels, entry, nil
}

func warnOpts(flags *rootFlags) compile.WarningOpts {
	return compile.WarningOpts{
		MatchOnlyVarsFatal:    flags.warnMatchOnly,
		UnusedDefinitionFatal: flags.warnUnused,
	}
}
