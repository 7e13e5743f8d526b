// Package web serves the LLDP report views as JSON over HTTP.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/javadmohebbi/lldpreport"
)

// Server holds the report served by the routes. The report is built before
// the server starts and never modified afterwards.
type Server struct {
	Report     lldpreport.Report
	Interfaces []lldpreport.NodeInterfaces
}

type fieldView struct {
	Field       string `json:"field"`
	DisplayName string `json:"display_name"`
	Value       any    `json:"value"`
}

type vlanView struct {
	VLAN  string              `json:"vlan"`
	Ports map[string][]string `json:"ports"`
}

type interfaceValueView struct {
	Interface string `json:"interface"`
	Value     any    `json:"value"`
}

// selected narrows the report to the ?node= and ?interface= query
// parameters. Missing parameters select everything.
func (s *Server) selected(c *fiber.Ctx) lldpreport.Report {
	return s.Report.Filter(c.Query("node"), c.Query("interface"))
}

// SetupRoutes registers the report routes on app. The /vlans, /fields and
// /report routes accept node and interface query parameters.
func SetupRoutes(app *fiber.App, s *Server) {
	// Interfaces per node
	app.Get("/nodes", func(c *fiber.Ctx) error {
		out := make(map[string][]string, len(s.Interfaces))
		for _, n := range s.Interfaces {
			out[n.Node] = n.Interfaces
		}
		return c.JSON(out)
	})

	// All fields of one interface, in decode order
	app.Get("/nodes/:node/interfaces/:iface", func(c *fiber.Ctx) error {
		fields, err := s.Report.Fields(c.Params("node"), c.Params("iface"))
		if errors.Is(err, lldpreport.ErrInterfaceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return err
		}
		views := make([]fieldView, 0, len(fields))
		for _, f := range fields {
			views = append(views, fieldView(f))
		}
		return c.JSON(views)
	})

	// VLANs and the interfaces they were seen on
	app.Get("/vlans", func(c *fiber.Ctx) error {
		vlans := s.selected(c).VLANs()
		views := make([]vlanView, 0, len(vlans))
		for _, v := range vlans {
			views = append(views, vlanView(v))
		}
		return c.JSON(views)
	})

	// One field across every node and interface
	app.Get("/fields/:field", func(c *fiber.Ctx) error {
		values := s.selected(c).FieldValues(c.Params("field"))
		views := make([]interfaceValueView, 0, len(values))
		for _, v := range values {
			views = append(views, interfaceValueView(v))
		}
		return c.JSON(views)
	})

	// Full report, node -> interface -> field -> value
	app.Get("/report", func(c *fiber.Ctx) error {
		return c.JSON(s.selected(c).Bindings())
	})
}
