package tree

import (
	"strings"

	"github.com/mattsolo1/notekeep/pkg/models"
	"github.com/mattsolo1/notekeep/pkg/nav"
	"github.com/mattsolo1/notekeep/pkg/store"
)

// Node is one item in the rendered hierarchy
type Node struct {
	Item     models.Item
	Children []*Node
}

// Build assembles the subtree rooted at folderID (nil for the whole
// collection). Children appear in display order: folders first, then most
// recently updated.
func Build(s *store.Store, folderID *string) []*Node {
	items := s.ChildrenOf(folderID)
	nav.SortItems(items)

	nodes := make([]*Node, 0, len(items))
	for _, it := range items {
		n := &Node{Item: it}
		if it.IsFolder() {
			id := it.ID
			n.Children = Build(s, &id)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// Render draws the nodes with box-drawing branch glyphs, one item per
// line. Folders get a trailing slash and pinned items a leading star.
func Render(nodes []*Node) string {
	var sb strings.Builder
	renderLevel(&sb, nodes, "")
	return sb.String()
}

func renderLevel(sb *strings.Builder, nodes []*Node, prefix string) {
	for i, n := range nodes {
		branch, childPrefix := "├── ", prefix+"│   "
		if i == len(nodes)-1 {
			branch, childPrefix = "└── ", prefix+"    "
		}

		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(label(n.Item))
		sb.WriteString("\n")

		renderLevel(sb, n.Children, childPrefix)
	}
}

func label(it models.Item) string {
	out := it.Title
	if it.IsFolder() {
		out += "/"
	}
	if it.Pinned {
		out = "* " + out
	}
	return out
}
