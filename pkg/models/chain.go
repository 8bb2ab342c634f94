package models

import (
	"fmt"
	"strings"
)

// Connector joins the steps of a command chain.
type Connector string

const (
	ConnectorAnd  Connector = "&&"
	ConnectorSeq  Connector = ";"
	ConnectorPipe Connector = "|"
)

// ValidConnector reports whether c is one of the supported join operators.
func ValidConnector(c Connector) bool {
	switch c {
	case ConnectorAnd, ConnectorSeq, ConnectorPipe:
		return true
	}
	return false
}

// Chain composes a command's executable text from an ordered list of steps.
// When a command carries a chain, the chain is the source of truth and Cmd
// is recomputed from it on every edit.
type Chain struct {
	Connector Connector `json:"connector" yaml:"connector"`
	Steps     []string  `json:"steps" yaml:"steps"`
}

// Clone returns a deep copy of the chain.
func (c *Chain) Clone() *Chain {
	return &Chain{
		Connector: c.Connector,
		Steps:     append([]string(nil), c.Steps...),
	}
}

// Normalize strips empty steps and validates the connector. A chain whose
// steps would all be empty is rejected.
func (c *Chain) Normalize() error {
	if !ValidConnector(c.Connector) {
		return fmt.Errorf("invalid chain connector %q", c.Connector)
	}
	steps := make([]string, 0, len(c.Steps))
	for _, s := range c.Steps {
		if t := strings.TrimSpace(s); t != "" {
			steps = append(steps, t)
		}
	}
	if len(steps) == 0 {
		return fmt.Errorf("chain has no non-empty steps")
	}
	c.Steps = steps
	return nil
}

// Render joins the steps with the connector into the executable command text.
func (c *Chain) Render() string {
	return strings.Join(c.Steps, " "+string(c.Connector)+" ")
}

// SetChain installs (or clears, when ch is nil) a chain on a command node and
// recomputes Cmd from it. Installing an invalid chain is an error and leaves
// the node untouched.
func (n *Node) SetChain(ch *Chain) error {
	if n.IsFolder() {
		return fmt.Errorf("cannot set a chain on folder %q", n.Name)
	}
	if ch == nil {
		n.Chain = nil
		return nil
	}
	if err := ch.Normalize(); err != nil {
		return err
	}
	n.Chain = ch
	n.Cmd = ch.Render()
	return nil
}
