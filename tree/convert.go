// Package tree bridges editable trees and the structure model. Item is the
// shape an editor works with; ToModel and FromModel are the only conversions
// between the two.
package tree

import "blueprint/structure"

type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// RootName labels the synthetic root returned by FromModel.
const RootName = "Project Root"

// Item is one node of an editable tree. The root item is a container only;
// its own name and kind are never part of the model.
type Item struct {
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Children []*Item `json:"children,omitempty"`
}

// Label returns the display label used in previews.
func (it *Item) Label() string {
	if it.Kind == KindFolder {
		return "📁 " + it.Name
	}
	return "📄 " + it.Name
}

// ToModel converts the children of root into a structure. Folder items
// become directories, anything else becomes a file. When two siblings share
// a name the later one wins. Names are kept verbatim; items with an empty
// name are dropped.
func ToModel(root *Item) *structure.Node {
	out := structure.New()
	if root == nil {
		return out
	}
	for _, child := range root.Children {
		addItem(out, child)
	}
	return out
}

func addItem(dst *structure.Node, it *Item) {
	if it == nil || it.Name == "" {
		return
	}
	if it.Kind != KindFolder {
		dst.Set(it.Name, structure.File)
		return
	}
	dir := structure.New()
	for _, child := range it.Children {
		addItem(dir, child)
	}
	dst.Set(it.Name, dir)
}

// FromModel builds an editable tree from n under a folder named RootName.
func FromModel(n *structure.Node) *Item {
	return &Item{Name: RootName, Kind: KindFolder, Children: items(n)}
}

func items(n *structure.Node) []*Item {
	var out []*Item
	for _, e := range n.Entries() {
		it := &Item{Name: e.Name, Kind: KindFile}
		if child, ok := e.Content.(*structure.Node); ok {
			it.Kind = KindFolder
			it.Children = items(child)
		}
		out = append(out, it)
	}
	return out
}
