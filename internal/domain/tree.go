package domain

// TreeNode represents a tag in a navigable snapshot of the tag tree
type TreeNode struct {
	Path       string
	Name       string
	Type       TagType
	ImageCount int
	Children   []*TreeNode
	IsExpanded bool
	Parent     *TreeNode
}

// Tree builds a snapshot of the tag tree rooted at the root tag, children in
// stored order. The root is expanded; everything else starts collapsed.
func (db *Database) Tree() *TreeNode {
	root := &TreeNode{
		Type:       TagTypeRoot,
		Name:       "Tags",
		IsExpanded: true,
	}
	db.buildTree(root, db.nodes[RootID])
	return root
}

func (db *Database) buildTree(parent *TreeNode, n *tagNode) {
	for _, id := range n.children {
		child := db.nodes[id]
		node := &TreeNode{
			Path:       child.path,
			Name:       child.name,
			Type:       child.typ,
			ImageCount: len(child.images),
			Parent:     parent,
		}
		parent.Children = append(parent.Children, node)
		db.buildTree(node, child)
	}
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Walk visits the node and all of its descendants depth first
func (n *TreeNode) Walk(visit func(*TreeNode)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Find returns the descendant at path, or nil
func (n *TreeNode) Find(path string) *TreeNode {
	if n.Path == path {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(path); found != nil {
			return found
		}
	}
	return nil
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	current := n.Parent
	for current != nil {
		depth++
		current = current.Parent
	}
	return depth
}

// IsLeaf reports whether the node has no children
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// ExpandTo expands every ancestor of the node so it becomes visible
func (n *TreeNode) ExpandTo() {
	for p := n.Parent; p != nil; p = p.Parent {
		p.Expand()
	}
}
