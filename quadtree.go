package takeoff

// quadTree is a spatial index for rectangles.
type quadTree struct {
	bounds   Rect
	capacity int
	depth    int
	items    []quadItem
	nodes    []*quadTree
}

type quadItem struct {
	rect  Rect
	index int
}

// maxQuadDepth stops subdivision when more than capacity items share a
// point, which would otherwise split forever.
const maxQuadDepth = 12

func newQuadTree(bounds Rect, capacity int) *quadTree {
	return &quadTree{
		bounds:   bounds,
		capacity: capacity,
		items:    make([]quadItem, 0, capacity),
	}
}

func (qt *quadTree) insert(rect Rect, index int) bool {
	if !qt.bounds.Intersects(rect) {
		return false
	}

	if qt.nodes != nil {
		// Try to fit in children
		for _, node := range qt.nodes {
			if contains(node.bounds, rect) {
				if node.insert(rect, index) {
					return true
				}
			}
		}
	}

	// Either a leaf, or the rect straddles children
	if qt.nodes == nil {
		if len(qt.items) < qt.capacity || qt.depth >= maxQuadDepth {
			qt.items = append(qt.items, quadItem{rect: rect, index: index})
			return true
		}
		qt.subdivide()
		old := qt.items
		qt.items = make([]quadItem, 0, qt.capacity)
		for _, it := range old {
			qt.insert(it.rect, it.index)
		}
		return qt.insert(rect, index)
	}

	qt.items = append(qt.items, quadItem{rect: rect, index: index})
	return true
}

func (qt *quadTree) subdivide() {
	xMid := (qt.bounds.X0 + qt.bounds.X1) / 2
	yMid := (qt.bounds.Y0 + qt.bounds.Y1) / 2
	b := qt.bounds

	qt.nodes = []*quadTree{
		newQuadTree(Rect{X0: b.X0, Y0: b.Y0, X1: xMid, Y1: yMid}, qt.capacity), // top-left
		newQuadTree(Rect{X0: xMid, Y0: b.Y0, X1: b.X1, Y1: yMid}, qt.capacity), // top-right
		newQuadTree(Rect{X0: b.X0, Y0: yMid, X1: xMid, Y1: b.Y1}, qt.capacity), // bottom-left
		newQuadTree(Rect{X0: xMid, Y0: yMid, X1: b.X1, Y1: b.Y1}, qt.capacity), // bottom-right
	}
	for _, n := range qt.nodes {
		n.depth = qt.depth + 1
	}
}

// query appends the indices of all items intersecting r to found.
func (qt *quadTree) query(r Rect, found []int) []int {
	if !qt.bounds.Intersects(r) {
		return found
	}
	for _, it := range qt.items {
		if it.rect.Intersects(r) {
			found = append(found, it.index)
		}
	}
	for _, node := range qt.nodes {
		found = node.query(r, found)
	}
	return found
}

func contains(outer, inner Rect) bool {
	return inner.X0 >= outer.X0 && inner.X1 <= outer.X1 &&
		inner.Y0 >= outer.Y0 && inner.Y1 <= outer.Y1
}
