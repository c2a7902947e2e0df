package nav

// BuildTree turns a flat, parent-referencing item list into a forest of
// TreeNodes. Sibling order follows input order at every level. Runs in two
// linear passes: one to index nodes by id, one to attach each node to its
// parent.
//
// Items referencing a parent id that does not exist are promoted to roots
// rather than dropped. Cyclic parent chains (which the REST API should never
// produce, but nothing enforces) are broken by re-rooting the first item
// whose ancestor chain loops back onto itself.
func BuildTree(items []MenuItem) []*TreeNode {
	nodes := make(map[int]*TreeNode, len(items))
	ordered := make([]*TreeNode, 0, len(items))
	for _, item := range items {
		node := &TreeNode{MenuItem: item}
		nodes[item.ID] = node
		ordered = append(ordered, node)
	}

	var roots []*TreeNode
	for _, node := range ordered {
		parent, ok := nodes[node.ParentID]
		if node.ParentID == 0 || !ok || parent == node || inCycle(node, nodes) {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// inCycle walks the parent chain from node and reports whether it loops back
// onto node itself. A chain that merely hangs off some other cycle returns
// false: the cycle's own members get re-rooted when their turn comes, so
// attaching to them is safe. The visited set bounds the walk either way.
func inCycle(node *TreeNode, nodes map[int]*TreeNode) bool {
	visited := map[int]bool{node.ID: true}
	current := node
	for {
		parent, ok := nodes[current.ParentID]
		if current.ParentID == 0 || !ok {
			return false
		}
		if visited[parent.ID] {
			return parent == node
		}
		visited[parent.ID] = true
		current = parent
	}
}

// CountNodes returns the total number of nodes in the forest.
func CountNodes(nodes []*TreeNode) int {
	count := len(nodes)
	for _, node := range nodes {
		count += CountNodes(node.Children)
	}
	return count
}
