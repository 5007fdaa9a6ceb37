package grove

// spriteLessOrEqual returns true if a should draw before or at the same
// position as b. Depth key first, then the exact depth line, then category.
// Equal sprites keep insertion order because the merge sort is stable.
func spriteLessOrEqual(a, b *Sprite) bool {
	if a.depthKey != b.depthKey {
		return a.depthKey < b.depthKey
	}
	if a.depthY != b.depthY {
		return a.depthY < b.depthY
	}
	return a.category <= b.category
}

// sortSprites sorts list in place by depth using buf as scratch space and
// returns the (possibly grown) scratch buffer. Bottom-up merge sort: zero
// allocations once buf reaches its high-water mark.
func sortSprites(list, buf []*Sprite) []*Sprite {
	n := len(list)
	if n <= 1 {
		return buf
	}
	if cap(buf) < n {
		buf = make([]*Sprite, n)
	}
	buf = buf[:n]

	a := list
	b := buf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(list, buf)
	}
	// Drop references so hidden sprites are not pinned by the scratch buffer.
	clear(buf)
	return buf
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []*Sprite, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if spriteLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
