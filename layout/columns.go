package layout

import "sort"

// slab is a horizontal range covered by content.
type slab struct {
	left, right float64
}

// mergeSlabs merges slabs sorted by left edge whose separation is below gap.
func mergeSlabs(slabs []slab, gap float64) []slab {
	if len(slabs) == 0 {
		return nil
	}

	merged := []slab{slabs[0]}
	for _, s := range slabs[1:] {
		last := &merged[len(merged)-1]
		if s.left < last.right+gap {
			last.right = max(last.right, s.right)
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

// orderRegions returns regions in reading order by recursive cuts. Regions
// separated by a vertical whitespace gutter at least minGap wide are split
// into columns, read left to right; otherwise regions separated by a
// horizontal gap are split into bands, read top to bottom. Regions that
// cannot be separated either way are read top to bottom, then left to right.
func orderRegions(regions []*region, minGap float64) []*region {
	if len(regions) <= 1 {
		return regions
	}

	if groups := splitColumns(regions, minGap); len(groups) > 1 {
		return orderGroups(groups, minGap)
	}
	if groups := splitBands(regions); len(groups) > 1 {
		return orderGroups(groups, minGap)
	}

	out := append([]*region(nil), regions...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].bbox.Top() != out[j].bbox.Top() {
			return out[i].bbox.Top() > out[j].bbox.Top()
		}
		return out[i].bbox.Left() < out[j].bbox.Left()
	})
	return out
}

func orderGroups(groups [][]*region, minGap float64) []*region {
	var out []*region
	for _, g := range groups {
		out = append(out, orderRegions(g, minGap)...)
	}
	return out
}

// splitColumns partitions regions by the vertical gutters between them,
// left to right.
func splitColumns(regions []*region, minGap float64) [][]*region {
	slabs := make([]slab, len(regions))
	for i, r := range regions {
		slabs[i] = slab{left: r.bbox.Left(), right: r.bbox.Right()}
	}
	sort.Slice(slabs, func(i, j int) bool { return slabs[i].left < slabs[j].left })

	columns := mergeSlabs(slabs, minGap)
	if len(columns) < 2 {
		return nil
	}

	groups := make([][]*region, len(columns))
	for _, r := range regions {
		for i, c := range columns {
			if r.bbox.Left() >= c.left && r.bbox.Left() <= c.right {
				groups[i] = append(groups[i], r)
				break
			}
		}
	}
	return groups
}

// splitBands partitions regions by the horizontal gaps between them, top to
// bottom.
func splitBands(regions []*region) [][]*region {
	sorted := append([]*region(nil), regions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].bbox.Top() > sorted[j].bbox.Top()
	})

	var groups [][]*region
	var current []*region
	bottom := 0.0
	for _, r := range sorted {
		if len(current) > 0 && r.bbox.Top() < bottom {
			groups = append(groups, current)
			current = nil
		}
		if len(current) == 0 {
			bottom = r.bbox.Bottom()
		}
		current = append(current, r)
		bottom = min(bottom, r.bbox.Bottom())
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
