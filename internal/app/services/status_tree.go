package services

import (
	"sort"
	"strings"

	"github.com/chmouel/lazystatus/internal/status"
)

// TreeNode is a directory or a changed file in the grouped view.
type TreeNode struct {
	Path        string             // Full path (e.g., "internal/app" or "internal/app/app.go")
	Change      *status.FileChange // nil for directories
	Children    []*TreeNode        // nil for files
	Compression int                // Number of squashed parent segments (e.g., "a/b" = 1)
	Depth       int                // Cached depth for rendering
}

// TreeService keeps the grouped view and its collapsed directories.
type TreeService struct {
	Tree          *TreeNode
	TreeFlat      []*TreeNode
	CollapsedDirs map[string]bool
}

// NewTreeService creates a new TreeService.
func NewTreeService() *TreeService {
	return &TreeService{
		CollapsedDirs: make(map[string]bool),
	}
}

// SetChanges rebuilds the tree for a new batch, keeping collapsed state.
func (s *TreeService) SetChanges(changes []status.FileChange) {
	s.Tree = BuildTree(changes)
	s.RebuildFlat()
}

// BuildTree groups changes by directory, directories sorted before files.
func BuildTree(changes []status.FileChange) *TreeNode {
	root := &TreeNode{Path: ""}
	if len(changes) == 0 {
		return root
	}
	root.Children = make([]*TreeNode, 0)
	byPath := make(map[string]*TreeNode)

	for i := range changes {
		change := &changes[i]
		parts := strings.Split(strings.TrimSuffix(change.Path(), "/"), "/")

		current := root
		for j := range parts {
			isFile := j == len(parts)-1
			pathSoFar := strings.Join(parts[:j+1], "/")

			if existing, ok := byPath[pathSoFar]; ok && !isFile {
				current = existing
				continue
			}

			node := &TreeNode{Path: pathSoFar}
			if isFile {
				node.Change = change
			} else {
				node.Children = make([]*TreeNode, 0)
				byPath[pathSoFar] = node
			}
			current.Children = append(current.Children, node)
			current = node
		}
	}

	SortTree(root)
	CompressTree(root)
	return root
}

// SortTree sorts tree nodes: directories first, then alphabetically.
func SortTree(node *TreeNode) {
	if node == nil || node.Children == nil {
		return
	}

	sort.SliceStable(node.Children, func(i, j int) bool {
		iIsDir := node.Children[i].IsDir()
		jIsDir := node.Children[j].IsDir()
		if iIsDir != jIsDir {
			return iIsDir
		}
		return node.Children[i].Path < node.Children[j].Path
	})

	for _, child := range node.Children {
		SortTree(child)
	}
}

// CompressTree squashes single-child directory chains (e.g., a/b/c becomes one node).
func CompressTree(node *TreeNode) {
	if node == nil {
		return
	}

	for _, child := range node.Children {
		CompressTree(child)
	}

	for i, child := range node.Children {
		for child.IsDir() && len(child.Children) == 1 && child.Children[0].IsDir() {
			grandchild := child.Children[0]
			grandchild.Compression += child.Compression + 1
			node.Children[i] = grandchild
			child = grandchild
		}
	}
}

// FlattenTree returns visible nodes respecting collapsed state.
func FlattenTree(node *TreeNode, collapsed map[string]bool, depth int) []*TreeNode {
	if node == nil {
		return nil
	}

	result := make([]*TreeNode, 0)

	// the root is implicit
	if node.Path != "" {
		nodeCopy := *node
		nodeCopy.Depth = depth
		result = append(result, &nodeCopy)

		if collapsed[node.Path] {
			return result
		}
	}

	childDepth := depth
	if node.Path != "" {
		childDepth = depth + 1
	}
	for _, child := range node.Children {
		result = append(result, FlattenTree(child, collapsed, childDepth)...)
	}

	return result
}

// IsDir returns true if this node is a directory.
func (n *TreeNode) IsDir() bool {
	return n.Change == nil
}

// Name returns the display name, including squashed parent segments.
func (n *TreeNode) Name() string {
	parts := strings.Split(n.Path, "/")
	keep := n.Compression + 1
	if keep > len(parts) {
		keep = len(parts)
	}
	return strings.Join(parts[len(parts)-keep:], "/")
}

// CountChanges returns how many file changes live under n.
func (n *TreeNode) CountChanges() int {
	if n.Change != nil {
		return 1
	}
	total := 0
	for _, child := range n.Children {
		total += child.CountChanges()
	}
	return total
}

// RebuildFlat rebuilds the flattened tree representation.
func (s *TreeService) RebuildFlat() {
	if s.CollapsedDirs == nil {
		s.CollapsedDirs = make(map[string]bool)
	}
	s.TreeFlat = FlattenTree(s.Tree, s.CollapsedDirs, 0)
}

// ToggleCollapse toggles a directory collapse state and rebuilds the flat list.
func (s *TreeService) ToggleCollapse(path string) {
	if path == "" {
		return
	}
	if s.CollapsedDirs == nil {
		s.CollapsedDirs = make(map[string]bool)
	}
	s.CollapsedDirs[path] = !s.CollapsedDirs[path]
	s.RebuildFlat()
}
