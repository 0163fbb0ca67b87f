// Package structure holds the nested directory/file model that presets are
// made of. A Node maps names to Content; Content is either the File marker
// or a child *Node (a directory).
package structure

// Content is what a name maps to inside a Node. The only implementations are
// File and *Node.
type Content interface {
	isContent()
}

type fileMarker struct{}

func (fileMarker) isContent() {}

// File marks a leaf entry. It materializes as an empty file.
var File Content = fileMarker{}

// Entry is a single named child of a Node.
type Entry struct {
	Name    string
	Content Content
}

// Node is an ordered directory mapping. Names are unique; re-setting an
// existing name replaces its content but keeps its position. The zero value
// is an empty directory ready to use.
type Node struct {
	entries []Entry
	index   map[string]int
}

func (*Node) isContent() {}

// New returns an empty directory node.
func New() *Node {
	return &Node{}
}

// IsFile reports whether c is the file marker.
func IsFile(c Content) bool {
	_, ok := c.(fileMarker)
	return ok
}

// IsDir reports whether c is a directory, including an empty one.
func IsDir(c Content) bool {
	n, ok := c.(*Node)
	return ok && n != nil
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.entries)
}

// Entries returns the direct children in insertion order. The slice is a
// copy; the contents are shared.
func (n *Node) Entries() []Entry {
	if n == nil {
		return nil
	}
	out := make([]Entry, len(n.entries))
	copy(out, n.entries)
	return out
}

// Names returns child names in insertion order.
func (n *Node) Names() []string {
	if n == nil {
		return nil
	}
	names := make([]string, len(n.entries))
	for i, e := range n.entries {
		names[i] = e.Name
	}
	return names
}

// Get looks up a direct child by name.
func (n *Node) Get(name string) (Content, bool) {
	if n == nil || n.index == nil {
		return nil, false
	}
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.entries[i].Content, true
}

// Set inserts or replaces a child. A nil Content is stored as File and a nil
// *Node as an empty directory. An empty name is ignored.
func (n *Node) Set(name string, c Content) {
	if name == "" {
		return
	}
	switch v := c.(type) {
	case nil:
		c = File
	case *Node:
		if v == nil {
			c = New()
		}
	}
	if n.index == nil {
		n.index = make(map[string]int)
	}
	if i, ok := n.index[name]; ok {
		n.entries[i].Content = c
		return
	}
	n.index[name] = len(n.entries)
	n.entries = append(n.entries, Entry{Name: name, Content: c})
}

// AddFile is shorthand for Set(name, File).
func (n *Node) AddFile(name string) {
	n.Set(name, File)
}

// AddDir returns the directory stored under name, creating it if needed.
// An existing file under the same name is replaced. For an empty name the
// returned directory is not attached to n.
func (n *Node) AddDir(name string) *Node {
	if c, ok := n.Get(name); ok && IsDir(c) {
		return c.(*Node)
	}
	child := New()
	n.Set(name, child)
	return child
}

// Delete removes a child and reports whether it was present.
func (n *Node) Delete(name string) bool {
	if n == nil || n.index == nil {
		return false
	}
	i, ok := n.index[name]
	if !ok {
		return false
	}
	n.entries = append(n.entries[:i], n.entries[i+1:]...)
	delete(n.index, name)
	for j := i; j < len(n.entries); j++ {
		n.index[n.entries[j].Name] = j
	}
	return true
}

// CountItems counts every named entry at every depth. A directory counts as
// one plus its descendants.
func CountItems(n *Node) int {
	count := 0
	for _, e := range n.Entries() {
		count++
		if child, ok := e.Content.(*Node); ok {
			count += CountItems(child)
		}
	}
	return count
}

// Equal reports whether a and b describe the same tree. Child order is not
// significant.
func Equal(a, b *Node) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, e := range a.Entries() {
		other, ok := b.Get(e.Name)
		if !ok {
			return false
		}
		if IsFile(e.Content) != IsFile(other) {
			return false
		}
		if IsDir(e.Content) && !Equal(e.Content.(*Node), other.(*Node)) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of n.
func Clone(n *Node) *Node {
	out := New()
	for _, e := range n.Entries() {
		if child, ok := e.Content.(*Node); ok {
			out.Set(e.Name, Clone(child))
			continue
		}
		out.Set(e.Name, File)
	}
	return out
}
