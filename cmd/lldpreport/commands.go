package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"net"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/javadmohebbi/lldpreport"
	"github.com/javadmohebbi/lldpreport/internal/capture"
	"github.com/javadmohebbi/lldpreport/internal/store"
	"github.com/javadmohebbi/lldpreport/internal/web"
)

func newTable(c *cli) *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
}

// formatValue renders an attribute value for table output. Lists are joined
// with ", ".
func formatValue(v any) string {
	switch v := v.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func newInterfaceCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interface",
		Short: "List and show node interfaces",
	}

	var node string
	list := &cobra.Command{
		Use:   "list",
		Short: "List interfaces per node",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			nodes, err := c.loadNodes(node)
			if err != nil {
				return err
			}
			w := newTable(c)
			fmt.Fprintln(w, "Node\tInterfaces")
			for _, n := range lldpreport.InterfaceLists(nodes) {
				fmt.Fprintf(w, "%s\t%s\n", n.Node, strings.Join(n.Interfaces, ", "))
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&node, "node", "", "Only this node UUID")

	show := &cobra.Command{
		Use:   "show <node> <interface>",
		Short: "Show the LLDP data of one interface",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			nodeID, iface := args[0], args[1]
			report, err := c.report(nodeID, iface)
			if err != nil {
				return err
			}
			fields, err := report.Fields(nodeID, iface)
			if errors.Is(err, lldpreport.ErrInterfaceNotFound) {
				fmt.Fprintf(c.out, "Interface %s not found on node %s\n", iface, nodeID)
				return nil
			}
			if err != nil {
				return err
			}
			w := newTable(c)
			fmt.Fprintln(w, "Field\tValue")
			fmt.Fprintf(w, "node\t%s\n", nodeID)
			fmt.Fprintf(w, "interface\t%s\n", iface)
			for _, f := range fields {
				fmt.Fprintf(w, "%s\t%s\n", f.Field, formatValue(f.Value))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func newVLANCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vlan",
		Short: "Inspect VLANs announced by switches",
	}

	var node, iface string
	list := &cobra.Command{
		Use:   "list",
		Short: "List VLANs and the interfaces they were seen on",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			report, err := c.report(node, iface)
			if err != nil {
				return err
			}
			w := newTable(c)
			fmt.Fprintln(w, "VLAN\tInterfaces")
			for _, v := range report.VLANs() {
				var ports []string
				for _, n := range slices.Sorted(maps.Keys(v.Ports)) {
					for _, i := range v.Ports[n] {
						ports = append(ports, n+":"+i)
					}
				}
				fmt.Fprintf(w, "%s\t%s\n", v.VLAN, strings.Join(ports, ", "))
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&node, "node", "", "Only this node UUID")
	list.Flags().StringVar(&iface, "interface", "", "Only interfaces with this name")

	cmd.AddCommand(list)
	return cmd
}

func newFieldCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Inspect one LLDP field across interfaces",
	}

	var node, iface string
	show := &cobra.Command{
		Use:   "show <field>",
		Short: "Show the value of a field on every interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			report, err := c.report(node, iface)
			if err != nil {
				return err
			}
			w := newTable(c)
			fmt.Fprintln(w, "Interface\tValue")
			for _, v := range report.FieldValues(args[0]) {
				fmt.Fprintf(w, "%s\t%s\n", v.Interface, formatValue(v.Value))
			}
			return w.Flush()
		},
	}
	show.Flags().StringVar(&node, "node", "", "Only this node UUID")
	show.Flags().StringVar(&iface, "interface", "", "Only interfaces with this name")

	cmd.AddCommand(show)
	return cmd
}

func newSaveCommand(c *cli) *cobra.Command {
	var file, node, iface string
	var db bool
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the decoded LLDP report as JSON, and optionally to sqlite",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			report, err := c.report(node, iface)
			if err != nil {
				return err
			}

			if file == "" {
				if err := writeJSON(c, report.Bindings()); err != nil {
					return err
				}
			} else {
				data, err := json.MarshalIndent(report.Bindings(), "", "    ")
				if err != nil {
					return errors.Wrap(err, "encoding report")
				}
				if err := os.WriteFile(file, append(data, '\n'), 0o644); err != nil {
					return errors.Wrapf(err, "writing %s", file)
				}
			}

			if !db {
				return nil
			}
			s, err := store.Open(c.cfg.DBPath)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.SaveReport(report); err != nil {
				return err
			}
			c.log.WithField("db", c.cfg.DBPath).Infof("saved %d nodes", len(report))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&db, "db", false, "Also store the report in the sqlite database at LLDPREPORT_DB_PATH")
	cmd.Flags().StringVar(&node, "node", "", "Only this node UUID")
	cmd.Flags().StringVar(&iface, "interface", "", "Only interfaces with this name")
	return cmd
}

// writeJSON writes v indented, with map keys sorted by encoding/json.
func writeJSON(c *cli, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	_, err = c.out.Write(append(data, '\n'))
	return err
}

func newDBCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Read back reports stored with save --db",
	}

	nodes := &cobra.Command{
		Use:   "nodes",
		Short: "List the nodes stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := store.Open(c.cfg.DBPath)
			if err != nil {
				return err
			}
			defer s.Close()
			uuids, err := s.Nodes()
			if err != nil {
				return err
			}
			for _, n := range uuids {
				fmt.Fprintln(c.out, n)
			}
			return nil
		},
	}

	var node string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored report as JSON, in the same shape as save",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := store.Open(c.cfg.DBPath)
			if err != nil {
				return err
			}
			defer s.Close()
			bindings, err := s.Bindings()
			if err != nil {
				return err
			}
			if node != "" {
				stored, ok := bindings[node]
				bindings = map[string]map[string]map[string]any{}
				if ok {
					bindings[node] = stored
				}
			}
			return writeJSON(c, bindings)
		},
	}
	show.Flags().StringVar(&node, "node", "", "Only this node UUID")

	cmd.AddCommand(nodes, show)
	return cmd
}

func newServeCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the LLDP report over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			nodes, err := c.loadNodes("")
			if err != nil {
				return err
			}
			srv := &web.Server{
				Report:     c.decoder().BuildReport(nodes, "", c.cfg.Workers),
				Interfaces: lldpreport.InterfaceLists(nodes),
			}

			app := fiber.New(fiber.Config{DisableStartupMessage: true})
			web.SetupRoutes(app, srv)

			addr := net.JoinHostPort(c.cfg.WebHost, c.cfg.WebPort)
			c.log.WithField("addr", addr).Info("serving LLDP report")
			return app.Listen(addr)
		},
	}
}

func newCaptureCommand(c *cli) *cobra.Command {
	var iface, mac string
	cmd := &cobra.Command{
		Use:   "capture <file.pcap>",
		Short: "Decode the last LLDP frame of a pcap capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			in, err := capture.ReadFile(args[0], iface, mac)
			if err != nil {
				return err
			}
			report := c.decoder().DecodeInterface(in)
			w := newTable(c)
			fmt.Fprintln(w, "Field\tValue")
			fmt.Fprintf(w, "interface\t%s\n", iface)
			for _, a := range report.Attributes {
				if a.Kind == lldpreport.KindVLANName {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\n", a.Field(), formatValue(a.Value()))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&iface, "interface", "capture", "Interface name to report")
	cmd.Flags().StringVar(&mac, "mac", "", "MAC address of the capturing interface")
	return cmd
}
