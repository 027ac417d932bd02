// Package main contains the cli implementation of the offline graph
// utility. It uses cobra package for cli tool implementation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nodeframe/internal/graph"
	"nodeframe/internal/graphjson"
	"nodeframe/internal/nodelib"
	"nodeframe/internal/node"
)

type runFlags struct {
	format string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "nodeframectl",
		Short: "Offline utility for validating and running graph documents",
	}
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <graph.json>",
		Short: "Parse a graph document and check every node type is registered",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g, registry, err := loadGraphAndRegistry(args[0])
			if err != nil {
				return err
			}
			var missing []string
			for _, n := range g.Nodes() {
				if _, ok := registry.GetNode(n.Definition); !ok {
					missing = append(missing, fmt.Sprintf("%s (%s)", n.ID, n.Definition))
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("unknown node types: %v", missing)
			}
			fmt.Printf("ok: %d nodes, %d connections\n", len(g.Nodes()), len(g.Connections()))
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <graph.json>",
		Short: "Re-render a graph document in canonical pretty-printed form",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g, _, err := loadGraphAndRegistry(args[0])
			if err != nil {
				return err
			}
			out, err := graphjson.FormatGraph(g)
			if err != nil {
				return fmt.Errorf("format graph: %w", err)
			}
			fmt.Print(out)
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <graph.json>",
		Short: "Execute a graph document and print the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGraph(args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "output format (only json is supported)")
	return cmd
}

func runGraph(path string, _ *runFlags) error {
	g, registry, err := loadGraphAndRegistry(path)
	if err != nil {
		return err
	}
	exec := graph.NewExecutor(registry, nil)
	results, _, err := exec.Execute(g, nil)
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	out, err := graphjson.FormatExecution(results, nil)
	if err != nil {
		return fmt.Errorf("format execution: %w", err)
	}
	fmt.Print(out)
	return nil
}

func loadGraphAndRegistry(path string) (*graph.Graph, *node.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	g, err := graphjson.ParseGraph(string(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parse graph: %w", err)
	}
	registry := node.NewRegistry()
	nodelib.RegisterAll(registry)
	return g, registry, nil
}
