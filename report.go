package lldpreport

import (
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
)

// DecodeNode decodes the interfaces of one node. When iface is not empty only
// that interface is decoded, and ErrInterfaceNotFound is returned if the node
// does not have it.
func (d *Decoder) DecodeNode(node Node, iface string) (NodeReport, error) {
	nr := NodeReport{}
	for _, i := range node.Interfaces {
		if iface != "" && i.Name != iface {
			continue
		}
		nr[i.Name] = d.DecodeInterface(i)
	}
	if iface != "" && len(nr) == 0 {
		return nil, errors.Wrapf(ErrInterfaceNotFound, "could not find interface %s for node %s", iface, node.UUID)
	}
	return nr, nil
}

type nodeResult struct {
	uuid   string
	report NodeReport
	err    error
}

// BuildReport decodes all nodes using up to workers goroutines. Nodes that do
// not have iface are logged and left out; they never affect other nodes.
func (d *Decoder) BuildReport(nodes []Node, iface string, workers int) Report {
	if workers < 1 {
		workers = 1
	}
	p := pool.New().WithMaxGoroutines(workers)
	resultsChan := make(chan nodeResult, len(nodes))

	for _, n := range nodes {
		n := n
		p.Go(func() {
			nr, err := d.DecodeNode(n, iface)
			resultsChan <- nodeResult{uuid: n.UUID, report: nr, err: err}
		})
	}

	p.Wait()
	close(resultsChan)

	report := Report{}
	for r := range resultsChan {
		if r.err != nil {
			d.log.WithField("node", r.uuid).Warn(r.err)
			continue
		}
		report[r.uuid] = r.report
	}
	return report
}
