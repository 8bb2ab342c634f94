package models

import (
	"github.com/google/uuid"
)

// Kind discriminates the two node variants stored in the tree.
type Kind string

const (
	KindFolder  Kind = "folder"
	KindCommand Kind = "command"
)

// DefaultName is assigned to any node that would otherwise have an empty name.
const DefaultName = "Untitled"

// Icon sentinels. IconMasked marks a secret command whose text stays hidden
// until the user reveals it.
const (
	IconDefault = "⌨"
	IconMasked  = "masked"
)

// FolderColors is the palette offered for folder tinting. Children without a
// color of their own inherit their nearest ancestor's at display time.
var FolderColors = []string{
	"#ECEFF1", "#F37423", "#7DCFFF", "#8CD493",
	"#E4A8F2", "#FF5252", "#7C4DFF", "#424242",
}

// Node is a single entry in the command forest: either a folder or a command.
// Which fields are meaningful depends on Kind.
type Node struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Kind   Kind   `json:"type" yaml:"type"`
	Pinned bool   `json:"pinned,omitempty" yaml:"pinned,omitempty"`

	// Folder fields.
	Children  []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Collapsed bool    `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Color     string  `json:"color,omitempty" yaml:"color,omitempty"`

	// Command fields.
	Cmd         string   `json:"cmd,omitempty" yaml:"cmd,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Icon        string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Expanded    bool     `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Chain       *Chain   `json:"chain,omitempty" yaml:"chain,omitempty"`
}

// NewID returns a fresh opaque node id.
func NewID() string {
	return uuid.NewString()
}

// NewFolder creates an empty folder node with a fresh id.
func NewFolder(name string) *Node {
	if name == "" {
		name = DefaultName
	}
	return &Node{
		ID:       NewID(),
		Name:     name,
		Kind:     KindFolder,
		Children: []*Node{},
		Color:    FolderColors[0],
	}
}

// NewCommand creates a command node with a fresh id. Tags are normalized.
func NewCommand(name, cmd string) *Node {
	if name == "" {
		name = DefaultName
	}
	return &Node{
		ID:   NewID(),
		Name: name,
		Kind: KindCommand,
		Cmd:  cmd,
		Icon: IconDefault,
	}
}

// IsFolder reports whether the node is the folder variant.
func (n *Node) IsFolder() bool {
	return n.Kind == KindFolder
}

// IsMasked reports whether a command's text should stay hidden until revealed.
func (n *Node) IsMasked() bool {
	return n.Icon == IconMasked
}

// MaskedCmd stands in for a masked command's body anywhere it is shown
// without an explicit reveal.
const MaskedCmd = "••••••"

// DisplayCmd returns the body safe to show in listings: masked commands
// yield the placeholder instead of the secret.
func (n *Node) DisplayCmd() string {
	if n.IsMasked() {
		return MaskedCmd
	}
	return n.Cmd
}

// Clone deep-copies the node and its subtree, assigning fresh ids to every
// copied node so the clone never aliases the original. Chain steps and tags
// are copied, not shared.
func (n *Node) Clone() *Node {
	c := *n
	c.ID = NewID()
	if n.Tags != nil {
		c.Tags = append([]string(nil), n.Tags...)
	}
	if n.Chain != nil {
		c.Chain = n.Chain.Clone()
	}
	if n.Children != nil {
		c.Children = make([]*Node, 0, len(n.Children))
		for _, child := range n.Children {
			c.Children = append(c.Children, child.Clone())
		}
	}
	return &c
}

// Sanitize normalizes a forest loaded from storage or an import: nil entries
// are dropped, missing and duplicate ids assigned fresh, empty names
// defaulted, folder children initialized, tags normalized, and a present
// chain re-rendered into cmd so the two can never disagree.
func Sanitize(nodes []*Node) []*Node {
	return sanitize(nodes, make(map[string]struct{}))
}

func sanitize(nodes []*Node, seen map[string]struct{}) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.ID == "" {
			n.ID = NewID()
		}
		// A duplicate id (hand-edited vault, pasted document) gets a fresh
		// one so the unique-id invariant holds on every load path.
		if _, dup := seen[n.ID]; dup {
			n.ID = NewID()
		}
		seen[n.ID] = struct{}{}
		if n.Name == "" {
			n.Name = DefaultName
		}
		if n.Kind != KindFolder && n.Kind != KindCommand {
			if n.Children != nil {
				n.Kind = KindFolder
			} else {
				n.Kind = KindCommand
			}
		}
		if n.IsFolder() {
			if n.Children == nil {
				n.Children = []*Node{}
			}
			n.Children = sanitize(n.Children, seen)
		} else {
			n.Children = nil
			n.Tags = NormalizeTags(n.Tags)
			if n.Chain != nil {
				if err := n.Chain.Normalize(); err != nil {
					n.Chain = nil
				} else {
					n.Cmd = n.Chain.Render()
				}
			}
		}
		out = append(out, n)
	}
	return out
}

// DefaultForest is the initial vault contents on first run.
func DefaultForest() []*Node {
	return []*Node{NewFolder("My Commands")}
}
