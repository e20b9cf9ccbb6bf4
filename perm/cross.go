package perm

// intn is the minimal random source OrderXVariant needs. *math/rand.Rand
// satisfies it; tests can supply a scripted stand-in.
type intn interface {
	Intn(n int) int
}

// OrderXVariant performs order crossover with an optional reversed read of
// the donor fragment. A contiguous run of pB, read forward if fStart <=
// fEnd or backward otherwise, is copied into child starting at a random
// offset; the remaining positions are filled from pA in its original
// relative order, skipping genes already placed. Reading the fragment
// backward doubles the effective neighbourhood of the operator without a
// separate inversion mutation.
//
// pA and pB must be permutations of [0,len(child)). present must have the
// same length as child and is cleared on entry; callers reuse it across
// calls to avoid reallocating per crossover. rng drives all three random
// draws (fStart, fEnd, c0).
func OrderXVariant(child, pA, pB []int, rng intn, present []bool) {
	n := len(child)
	for i := range present {
		present[i] = false
	}

	fStart := rng.Intn(n)
	fEnd := rng.Intn(n)
	var fLen int
	if fEnd >= fStart {
		fLen = fEnd - fStart + 1
	} else {
		fLen = fStart - fEnd + 1
	}
	c0 := rng.Intn(n - fLen + 1)

	pos := c0
	if fStart <= fEnd {
		for i := fStart; i <= fEnd; i++ {
			g := pB[i]
			child[pos] = g
			present[g] = true
			pos++
		}
	} else {
		for i := fStart; i >= fEnd; i-- {
			g := pB[i]
			child[pos] = g
			present[g] = true
			pos++
		}
	}
	c1 := pos

	dest := 0
	for _, g := range pA {
		if present[g] {
			continue
		}
		if dest == c0 {
			dest = c1
		}
		child[dest] = g
		dest++
	}
}
