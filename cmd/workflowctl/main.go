// Command workflowctl inspects the compiled-in workflow registry. It lists
// kinds and the actions available from a state, and renders transition
// graphs as YAML, Graphviz or Mermaid.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/i18n"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/verticals"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
// Errors are printed by cobra.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(verticals.Registry())
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(registry *workflow.Registry) *cobra.Command {
	root := &cobra.Command{
		Use:           "workflowctl",
		Short:         "Inspect entity workflows",
		Long:          "workflowctl lists the registered entity kinds, the actions available from a\nstatus, and renders transition graphs as YAML, Graphviz or Mermaid.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newKindsCmd(registry),
		newActionsCmd(registry),
		newYAMLCmd(registry),
		newDOTCmd(registry),
		newMermaidCmd(registry),
	)
	return root
}

func newKindsCmd(registry *workflow.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List registered entity kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tINITIAL\tSTATES\tTERMINAL")
			for _, kind := range registry.Kinds() {
				def, err := registry.Get(kind)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", kind, def.Initial().Name(), len(def.States()), len(def.Terminal()))
			}
			return w.Flush()
		},
	}
}

func newActionsCmd(registry *workflow.Registry) *cobra.Command {
	var kindName, state, lang string
	cmd := &cobra.Command{
		Use:   "actions --kind <kind> --state <state>",
		Short: "List actions available from a state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := workflow.ParseKind(kindName)
			if err != nil {
				return err
			}
			labels, err := i18n.NewActionLabels(cmd.Context())
			if err != nil {
				return fmt.Errorf("load action labels: %w", err)
			}
			actions, err := workflow.NextActions(registry, labels, kind, state, lang)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(actions) == 0 {
				fmt.Fprintf(out, "%s %q has no further actions\n", kind, state)
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TO\tLABEL")
			for _, a := range actions {
				fmt.Fprintf(w, "%s\t%s\n", a.ToState, a.Label)
			}
			return w.Flush()
		},
	}
	kindFlag(cmd, registry, &kindName, "entity kind")
	cmd.Flags().StringVarP(&state, "state", "s", "", "current status")
	cmd.Flags().StringVarP(&lang, "lang", "l", i18n.DefaultLanguage, "label language")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newYAMLCmd(registry *workflow.Registry) *cobra.Command {
	var kindName string
	cmd := &cobra.Command{
		Use:   "yaml [--kind <kind>]",
		Short: "Dump transition graphs as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds := registry.Kinds()
			if kindName != "" {
				kind, err := workflow.ParseKind(kindName)
				if err != nil {
					return err
				}
				kinds = []workflow.Kind{kind}
			}

			docs := make([]graphDoc, 0, len(kinds))
			for _, kind := range kinds {
				def, err := registry.Definition(kind)
				if err != nil {
					return err
				}
				docs = append(docs, describe(def))
			}
			return writeYAML(cmd.OutOrStdout(), docs)
		},
	}
	kindFlag(cmd, registry, &kindName, "entity kind (default: all)")
	return cmd
}

func newDOTCmd(registry *workflow.Registry) *cobra.Command {
	var kindName string
	cmd := &cobra.Command{
		Use:   "dot --kind <kind>",
		Short: "Render a transition graph for Graphviz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := definition(registry, kindName)
			if err != nil {
				return err
			}
			return writeDOT(cmd.OutOrStdout(), describe(def))
		},
	}
	kindFlag(cmd, registry, &kindName, "entity kind")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newMermaidCmd(registry *workflow.Registry) *cobra.Command {
	var kindName, lang string
	cmd := &cobra.Command{
		Use:   "mermaid --kind <kind> [--lang <lang>]",
		Short: "Render a labelled Mermaid state diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := definition(registry, kindName)
			if err != nil {
				return err
			}
			labels, err := i18n.NewActionLabels(cmd.Context())
			if err != nil {
				return fmt.Errorf("load action labels: %w", err)
			}
			return writeMermaid(cmd.OutOrStdout(), describe(def), func(to string) string {
				if l := labels.Label(lang, string(def.Kind), to); l != "" {
					return l
				}
				return workflow.Humanize(to)
			})
		},
	}
	kindFlag(cmd, registry, &kindName, "entity kind")
	cmd.Flags().StringVarP(&lang, "lang", "l", i18n.DefaultLanguage, "edge label language")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

// kindFlag registers --kind with shell completion over the registered kinds.
func kindFlag(cmd *cobra.Command, registry *workflow.Registry, target *string, usage string) {
	cmd.Flags().StringVarP(target, "kind", "k", "", usage)
	_ = cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		kinds := registry.Kinds()
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

func definition(registry *workflow.Registry, kindName string) (workflow.KindDefinition, error) {
	kind, err := workflow.ParseKind(kindName)
	if err != nil {
		return workflow.KindDefinition{}, err
	}
	return registry.Definition(kind)
}
