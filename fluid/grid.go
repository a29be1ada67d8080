package fluid

import "math"

// cellKey identifies a grid cell by its integer coordinates.
type cellKey struct {
	X, Y int32
}

// spatialGrid is a sparse uniform hash grid used to find candidate
// neighbors. Queries over-return: every particle in a cell overlapping
// the query radius is a candidate, and callers re-filter by exact
// squared distance. Buckets persist across steps and are truncated on
// Clear, so the grid is allocation-free once warm.
type spatialGrid struct {
	cellSize float64
	cells    map[cellKey][]*Particle
	occupied []cellKey // cells touched since the last Clear
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	return &spatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]*Particle),
	}
}

// SetCellSize changes the cell size for subsequent inserts. Callers
// must Clear first; stale buckets keyed at the old size would otherwise
// be missed by queries.
func (g *spatialGrid) SetCellSize(size float64) {
	if size > 0 {
		g.cellSize = size
	}
}

// Clear truncates every occupied bucket, keeping capacity.
func (g *spatialGrid) Clear() {
	for _, k := range g.occupied {
		g.cells[k] = g.cells[k][:0]
	}
	g.occupied = g.occupied[:0]
}

// Insert adds a particle at its current position.
func (g *spatialGrid) Insert(p *Particle) {
	k := g.keyAt(p.Pos)
	b := g.cells[k]
	if len(b) == 0 {
		g.occupied = append(g.occupied, k)
	}
	g.cells[k] = append(b, p)
}

// QueryInto appends every candidate within the cells overlapping radius
// of point to dst, skipping exclude, and returns the extended slice.
// Reuse dst across calls to avoid allocations.
func (g *spatialGrid) QueryInto(dst []*Particle, point Vec2, radius float64, exclude *Particle) []*Particle {
	cr := int32(radius/g.cellSize) + 1
	ck := g.keyAt(point)

	for dx := -cr; dx <= cr; dx++ {
		for dy := -cr; dy <= cr; dy++ {
			for _, p := range g.cells[cellKey{ck.X + dx, ck.Y + dy}] {
				if p == exclude {
					continue
				}
				dst = append(dst, p)
			}
		}
	}
	return dst
}

func (g *spatialGrid) keyAt(p Vec2) cellKey {
	return cellKey{
		X: int32(math.Floor(p.X / g.cellSize)),
		Y: int32(math.Floor(p.Y / g.cellSize)),
	}
}
