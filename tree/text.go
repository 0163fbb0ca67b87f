package tree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"blueprint/structure"
)

// Render formats n as an indented preview, one entry per line. Directories
// carry a trailing slash and each level indents by one space.
func Render(n *structure.Node) string {
	var b strings.Builder
	render(&b, n, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func render(b *strings.Builder, n *structure.Node, depth int) {
	prefix := strings.Repeat(" ", depth)
	for _, e := range n.Entries() {
		child, ok := e.Content.(*structure.Node)
		if !ok {
			fmt.Fprintf(b, "%s📄 %s\n", prefix, e.Name)
			continue
		}
		fmt.Fprintf(b, "%s📁 %s/\n", prefix, e.Name)
		render(b, child, depth+1)
	}
}

type line struct {
	name  string
	dir   bool
	depth int
	num   int
}

// Parse reads tree(1)-style text (├──/└── or |--/`--) into a structure. An
// optional first line without a branch marker names the root and is
// returned separately. An entry is a directory when it ends with "/" or when
// the next line is nested deeper.
func Parse(r io.Reader) (string, *structure.Node, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), 1024*1024)

	var (
		root  string
		lines []line
		num   int
	)
	for sc.Scan() {
		num++
		raw := strings.TrimRight(sc.Text(), "\r\n")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || isSummary(trimmed) {
			continue
		}

		depth, name, ok := parseLine(raw)
		if !ok {
			if len(lines) == 0 && root == "" {
				root = strings.TrimSuffix(trimmed, "/")
				continue
			}
			return "", nil, fmt.Errorf("line %d: not a tree line: %q", num, raw)
		}

		dir := strings.HasSuffix(name, "/")
		name = strings.TrimSuffix(name, "/")
		if err := validateName(name); err != nil {
			return "", nil, fmt.Errorf("line %d: %w", num, err)
		}
		lines = append(lines, line{name: name, dir: dir, depth: depth, num: num})
	}
	if err := sc.Err(); err != nil {
		return "", nil, err
	}

	for i := range lines {
		if i+1 < len(lines) && lines[i+1].depth > lines[i].depth {
			lines[i].dir = true
		}
	}

	out := structure.New()
	stack := []*structure.Node{out}
	for _, l := range lines {
		if l.depth >= len(stack) {
			return "", nil, fmt.Errorf("line %d: %q is nested %d levels deep under %d open directories",
				l.num, l.name, l.depth, len(stack)-1)
		}
		stack = stack[:l.depth+1]
		parent := stack[l.depth]
		if l.dir {
			stack = append(stack, parent.AddDir(l.name))
			continue
		}
		parent.AddFile(l.name)
	}
	return root, out, nil
}

var markers = []string{"├──", "└──", "|--", "`--", "+--"}

// parseLine finds the leftmost branch marker and derives depth from the
// width of the prefix before it, four columns per level.
func parseLine(raw string) (int, string, bool) {
	idx, used := -1, ""
	for _, m := range markers {
		if i := strings.Index(raw, m); i != -1 && (idx == -1 || i < idx) {
			idx, used = i, m
		}
	}
	if idx == -1 {
		return 0, "", false
	}
	prefix := strings.NewReplacer("│", " ", "|", " ", "\u00a0", " ", "\t", "    ").Replace(raw[:idx])
	depth := strings.Count(prefix, " ") / 4
	name := strings.TrimSpace(raw[idx+len(used):])
	if name == "" {
		return 0, "", false
	}
	return depth, name, true
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name")
	case name == "." || name == "..":
		return fmt.Errorf("invalid name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name must be a single path segment: %q", name)
	}
	return nil
}

// isSummary matches the closing "N directories, M files" line of tree(1).
func isSummary(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "director") && strings.Contains(s, "file") && strings.Contains(s, ",") &&
		s[0] >= '0' && s[0] <= '9'
}
