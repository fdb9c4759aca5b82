package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-memory/view"
)

type memviewApp struct {
	baseCmd    *cobra.Command
	baseConfig *baseConfiguration
}

func newApp() *memviewApp {
	baseCmd, baseConfig := newBaseCmd()
	return &memviewApp{baseCmd: baseCmd, baseConfig: baseConfig}
}

// Execute adds all child commands and runs the application
func (a *memviewApp) Execute(ctx context.Context) error {
	a.baseCmd.AddCommand(newInspectCmd(a.baseConfig))
	a.baseCmd.AddCommand(newGrowCmd(a.baseConfig))
	a.baseCmd.AddCommand(newDumpCmd(a.baseConfig))
	a.baseCmd.AddCommand(newTUICmd(a.baseConfig))
	return a.baseCmd.ExecuteContext(ctx)
}

func newBaseCmd() (*cobra.Command, *baseConfiguration) {
	config := &baseConfiguration{}
	var baseCmd = &cobra.Command{
		Use:           "memview",
		Short:         "Inspect and grow WebAssembly linear memory through typed views",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			if err := config.initializeConfig(cmd); err != nil {
				errs = append(errs, fmt.Errorf("reading configuration: %w", err))
			}
			if err := config.initLogger(cmd); err != nil {
				errs = append(errs, fmt.Errorf("initializing logger: %w", err))
			}
			return errors.Join(errs...)
		},
	}
	config.addConfigurationFlags(baseCmd)
	return baseCmd, config
}

type inspectFlags struct {
	call   string
	args   []string
	kind   string
	offset uint32
	start  int
	count  int
}

func newInspectCmd(config *baseConfiguration) *cobra.Command {
	flags := &inspectFlags{}
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print memory size and a range of elements",
		Long: `Opens a wasm module (or a snapshot written by dump), optionally calls an
exported function, then prints --count elements of --kind starting at element
--start of a view placed at byte --offset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd.OutOrStdout(), config, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.call, "call", "", "exported function to call before inspecting")
	cmd.Flags().StringSliceVar(&flags.args, "args", nil, "arguments for --call")
	cmd.Flags().StringVarP(&flags.kind, "kind", "k", "u8", "element kind: u8, s8, u16, s16, u32, s32")
	cmd.Flags().Uint32Var(&flags.offset, "offset", 0, "byte offset of the view")
	cmd.Flags().IntVar(&flags.start, "start", 0, "first element to print")
	cmd.Flags().IntVarP(&flags.count, "count", "n", 64, "number of elements to print")
	return cmd
}

func runInspect(ctx context.Context, out io.Writer, config *baseConfiguration, file string, flags *inspectFlags) error {
	kind, err := view.ParseKind(flags.kind)
	if err != nil {
		return err
	}
	if flags.start < 0 || flags.count < 0 {
		return fmt.Errorf("--start and --count must not be negative")
	}

	s, err := openSession(ctx, config, file)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	if flags.call != "" {
		result, err := s.call(ctx, flags.call, flags.args)
		if err != nil {
			return fmt.Errorf("call %s: %w", flags.call, err)
		}
		fmt.Fprintf(out, "%s(%v) = %v\n", flags.call, flags.args, result)
	}

	maxPages, hasMax := s.mem.MaxPages()
	fmt.Fprintf(out, "memory: pages=%d max=%s size=%d\n", s.mem.Pages(), formatMaxPages(maxPages, hasMax), s.mem.Size())

	acc, err := s.mem.ViewOf(kind, flags.offset)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "view: %v\n", acc)
	if flags.start > acc.Len() {
		return fmt.Errorf("--start %d is past the end of the view (length %d)", flags.start, acc.Len())
	}
	for _, row := range formatRows(acc, flags.start, flags.count) {
		fmt.Fprintln(out, row)
	}
	return nil
}

func newGrowCmd(config *baseConfiguration) *cobra.Command {
	var pages uint32
	cmd := &cobra.Command{
		Use:   "grow FILE",
		Short: "Grow the exported memory and report the page counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, config, args[0])
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			prev, err := s.mem.Grow(pages)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "grew memory from %d to %d pages\n", prev, s.mem.Pages())
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&pages, "pages", "p", 1, "number of pages to add")
	return cmd
}

func newDumpCmd(config *baseConfiguration) *cobra.Command {
	var (
		output string
		call   string
		args   []string
	)
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Write a CBOR snapshot of the exported memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, config, posArgs[0])
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			if call != "" {
				if _, err := s.call(ctx, call, args); err != nil {
					return fmt.Errorf("call %s: %w", call, err)
				}
			}

			snap, err := s.mem.Snapshot()
			if err != nil {
				return err
			}
			b, err := snap.Encode()
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, b, 0o644); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages to %s\n", snap.Pages, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "memory.snap", "snapshot file to write")
	cmd.Flags().StringVar(&call, "call", "", "exported function to call before dumping")
	cmd.Flags().StringSliceVar(&args, "args", nil, "arguments for --call")
	return cmd
}
