// Package main provides the CLI entry point for the lldpreport tool.
//
// It loads configuration, reads introspection data for the requested nodes,
// and delegates LLDP decoding and report shaping to the core lldpreport
// package.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javadmohebbi/lldpreport"
	"github.com/javadmohebbi/lldpreport/internal/config"
	"github.com/javadmohebbi/lldpreport/internal/introspection"
)

// cli carries what every command needs once flags have been parsed.
type cli struct {
	cfg config.Config
	log *logrus.Logger
	out io.Writer
}

func (c *cli) decoder() *lldpreport.Decoder {
	return lldpreport.NewDecoder(c.log)
}

// loadNodes reads introspection data for one node, or all nodes when node is
// empty.
func (c *cli) loadNodes(node string) ([]lldpreport.Node, error) {
	return introspection.Load(introspection.DirSource{Dir: c.cfg.DataDir}, node, c.log)
}

// report decodes the selected nodes and interfaces.
func (c *cli) report(node, iface string) (lldpreport.Report, error) {
	nodes, err := c.loadNodes(node)
	if err != nil {
		return nil, err
	}
	return c.decoder().BuildReport(nodes, iface, c.cfg.Workers), nil
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	var dataDir, logLevel string
	var workers int

	root := &cobra.Command{
		Use:           "lldpreport",
		Short:         "Report switch configuration discovered by LLDP on bare-metal nodes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			log, err := cfg.NewLogger()
			if err != nil {
				return err
			}
			c.cfg, c.log = cfg, log
			return nil
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&dataDir, "data-dir", "", "Directory with one introspection document per node (<uuid>.json)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warning, error)")
	flags.IntVar(&workers, "workers", 0, "Number of nodes decoded concurrently")

	root.AddCommand(
		newInterfaceCommand(c),
		newVLANCommand(c),
		newFieldCommand(c),
		newSaveCommand(c),
		newDBCommand(c),
		newServeCommand(c),
		newCaptureCommand(c),
	)
	return root
}

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
