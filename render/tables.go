package render

// Corner i of a cell sits at the minimum or maximum of each axis according to
// its bits: bit 0 selects +X, bit 1 +Y and bit 2 +Z. Children of an octree
// node are numbered the same way.

const (
	xAxis = iota
	yAxis
	zAxis
)

// edgeCorners lists the two corners bounding each of the 12 cell edges.
// Edges 0-3 run along X, 4-7 along Y and 8-11 along Z.
var edgeCorners = [12][2]uint8{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// edgeTable maps a cube index (bit i set when corner i is inside) to the
// set of edges whose corners are classified differently.
var edgeTable = [256]uint16{
	0x000, 0x111, 0x221, 0x330, 0x412, 0x503, 0x633, 0x722,
	0x822, 0x933, 0xa03, 0xb12, 0xc30, 0xd21, 0xe11, 0xf00,
	0x144, 0x055, 0x365, 0x274, 0x556, 0x447, 0x777, 0x666,
	0x966, 0x877, 0xb47, 0xa56, 0xd74, 0xc65, 0xf55, 0xe44,
	0x284, 0x395, 0x0a5, 0x1b4, 0x696, 0x787, 0x4b7, 0x5a6,
	0xaa6, 0xbb7, 0x887, 0x996, 0xeb4, 0xfa5, 0xc95, 0xd84,
	0x3c0, 0x2d1, 0x1e1, 0x0f0, 0x7d2, 0x6c3, 0x5f3, 0x4e2,
	0xbe2, 0xaf3, 0x9c3, 0x8d2, 0xff0, 0xee1, 0xdd1, 0xcc0,
	0x448, 0x559, 0x669, 0x778, 0x05a, 0x14b, 0x27b, 0x36a,
	0xc6a, 0xd7b, 0xe4b, 0xf5a, 0x878, 0x969, 0xa59, 0xb48,
	0x50c, 0x41d, 0x72d, 0x63c, 0x11e, 0x00f, 0x33f, 0x22e,
	0xd2e, 0xc3f, 0xf0f, 0xe1e, 0x93c, 0x82d, 0xb1d, 0xa0c,
	0x6cc, 0x7dd, 0x4ed, 0x5fc, 0x2de, 0x3cf, 0x0ff, 0x1ee,
	0xeee, 0xfff, 0xccf, 0xdde, 0xafc, 0xbed, 0x8dd, 0x9cc,
	0x788, 0x699, 0x5a9, 0x4b8, 0x39a, 0x28b, 0x1bb, 0x0aa,
	0xfaa, 0xebb, 0xd8b, 0xc9a, 0xbb8, 0xaa9, 0x999, 0x888,
	0x888, 0x999, 0xaa9, 0xbb8, 0xc9a, 0xd8b, 0xebb, 0xfaa,
	0x0aa, 0x1bb, 0x28b, 0x39a, 0x4b8, 0x5a9, 0x699, 0x788,
	0x9cc, 0x8dd, 0xbed, 0xafc, 0xdde, 0xccf, 0xfff, 0xeee,
	0x1ee, 0x0ff, 0x3cf, 0x2de, 0x5fc, 0x4ed, 0x7dd, 0x6cc,
	0xa0c, 0xb1d, 0x82d, 0x93c, 0xe1e, 0xf0f, 0xc3f, 0xd2e,
	0x22e, 0x33f, 0x00f, 0x11e, 0x63c, 0x72d, 0x41d, 0x50c,
	0xb48, 0xa59, 0x969, 0x878, 0xf5a, 0xe4b, 0xd7b, 0xc6a,
	0x36a, 0x27b, 0x14b, 0x05a, 0x778, 0x669, 0x559, 0x448,
	0xcc0, 0xdd1, 0xee1, 0xff0, 0x8d2, 0x9c3, 0xaf3, 0xbe2,
	0x4e2, 0x5f3, 0x6c3, 0x7d2, 0x0f0, 0x1e1, 0x2d1, 0x3c0,
	0xd84, 0xc95, 0xfa5, 0xeb4, 0x996, 0x887, 0xbb7, 0xaa6,
	0x5a6, 0x4b7, 0x787, 0x696, 0x1b4, 0x0a5, 0x395, 0x284,
	0xe44, 0xf55, 0xc65, 0xd74, 0xa56, 0xb47, 0x877, 0x966,
	0x666, 0x777, 0x447, 0x556, 0x274, 0x365, 0x055, 0x144,
	0xf00, 0xe11, 0xd21, 0xc30, 0xb12, 0xa03, 0x933, 0x822,
	0x722, 0x633, 0x503, 0x412, 0x330, 0x221, 0x111, 0x000,
}

// cellFaces are the sibling pairs sharing an internal face of a cell,
// lower child first.
var cellFaces = [12]struct {
	a, b uint8
	axis uint8
}{
	{0, 1, xAxis}, {2, 3, xAxis}, {4, 5, xAxis}, {6, 7, xAxis},
	{0, 2, yAxis}, {1, 3, yAxis}, {4, 6, yAxis}, {5, 7, yAxis},
	{0, 4, zAxis}, {1, 5, zAxis}, {2, 6, zAxis}, {3, 7, zAxis},
}

// cellEdges are the sibling quadruples around an internal edge of a cell,
// in the quad order used by edgeProc.
var cellEdges = [6]struct {
	q    [4]uint8
	axis uint8
}{
	{[4]uint8{0, 2, 4, 6}, xAxis}, {[4]uint8{1, 3, 5, 7}, xAxis},
	{[4]uint8{0, 1, 4, 5}, yAxis}, {[4]uint8{2, 3, 6, 7}, yAxis},
	{[4]uint8{0, 1, 2, 3}, zAxis}, {[4]uint8{4, 5, 6, 7}, zAxis},
}

// faceFaces are the child pairs across the face shared by two nodes
// neighbouring along an axis. The first child belongs to the lower node.
var faceFaces = [3][4][2]uint8{
	xAxis: {{1, 0}, {3, 2}, {5, 4}, {7, 6}},
	yAxis: {{2, 0}, {3, 1}, {6, 4}, {7, 5}},
	zAxis: {{4, 0}, {5, 1}, {6, 2}, {7, 3}},
}

// faceEdges are the edge quadruples lying in the face shared by two nodes.
// side selects the lower (0) or upper (1) node and child its child.
var faceEdges = [3][4]struct {
	side  [4]uint8
	child [4]uint8
	axis  uint8
}{
	xAxis: {
		{[4]uint8{0, 1, 0, 1}, [4]uint8{1, 0, 5, 4}, yAxis},
		{[4]uint8{0, 1, 0, 1}, [4]uint8{3, 2, 7, 6}, yAxis},
		{[4]uint8{0, 1, 0, 1}, [4]uint8{1, 0, 3, 2}, zAxis},
		{[4]uint8{0, 1, 0, 1}, [4]uint8{5, 4, 7, 6}, zAxis},
	},
	yAxis: {
		{[4]uint8{0, 1, 0, 1}, [4]uint8{2, 0, 6, 4}, xAxis},
		{[4]uint8{0, 1, 0, 1}, [4]uint8{3, 1, 7, 5}, xAxis},
		{[4]uint8{0, 0, 1, 1}, [4]uint8{2, 3, 0, 1}, zAxis},
		{[4]uint8{0, 0, 1, 1}, [4]uint8{6, 7, 4, 5}, zAxis},
	},
	zAxis: {
		{[4]uint8{0, 0, 1, 1}, [4]uint8{4, 5, 0, 1}, yAxis},
		{[4]uint8{0, 0, 1, 1}, [4]uint8{6, 7, 2, 3}, yAxis},
		{[4]uint8{0, 0, 1, 1}, [4]uint8{4, 6, 0, 2}, xAxis},
		{[4]uint8{0, 0, 1, 1}, [4]uint8{5, 7, 1, 3}, xAxis},
	},
}

// edgeChildren holds, per axis, the two child quadruples splitting an edge
// shared by four nodes: the lower half first, then the upper half. Read per
// quad member they are also the corners of each node lying on that edge.
var edgeChildren = [3][2][4]uint8{
	xAxis: {{6, 4, 2, 0}, {7, 5, 3, 1}},
	yAxis: {{5, 4, 1, 0}, {7, 6, 3, 2}},
	zAxis: {{3, 2, 1, 0}, {7, 6, 5, 4}},
}
