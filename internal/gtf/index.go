package gtf

import "sort"

// Index answers overlap queries over loci, one sorted interval list per
// chromosome. A query binary-searches the last candidate start, then scans
// backwards while the running max end still reaches the query start, so it
// costs O(log n + m) where m counts the loci between the first one reaching
// the query and the query end. A long locus early on a chromosome keeps the
// running max high and can make m approach n. Loci are never modified
// after build.
type Index struct {
	chroms map[string]*intervals
}

type intervals struct {
	loci   []*Locus
	maxEnd []int64 // maxEnd[i] = max(End) for loci[:i+1]
}

// BuildIndex creates an index from a slice of loci.
func BuildIndex(loci []*Locus) *Index {
	idx := &Index{chroms: make(map[string]*intervals)}

	for _, l := range loci {
		iv, ok := idx.chroms[l.Chrom]
		if !ok {
			iv = &intervals{}
			idx.chroms[l.Chrom] = iv
		}
		iv.loci = append(iv.loci, l)
	}

	for _, iv := range idx.chroms {
		sort.Slice(iv.loci, func(i, j int) bool {
			return iv.loci[i].Start < iv.loci[j].Start
		})

		// Prefix-max array: maxEnd[i] = max(end) for loci[:i+1]
		iv.maxEnd = make([]int64, len(iv.loci))
		for i, l := range iv.loci {
			iv.maxEnd[i] = l.End
			if i > 0 && iv.maxEnd[i-1] > l.End {
				iv.maxEnd[i] = iv.maxEnd[i-1]
			}
		}
	}

	return idx
}

// FindOverlaps returns the loci on chrom overlapping [start, end], in start
// order. The chromosome name may carry a "chr" prefix.
func (x *Index) FindOverlaps(chrom string, start, end int64) []*Locus {
	iv, ok := x.chroms[normalizeChrom(chrom)]
	if !ok {
		return nil
	}

	// hi is the first locus starting after end; candidates are [0, hi).
	hi := sort.Search(len(iv.loci), func(i int) bool {
		return iv.loci[i].Start > end
	})

	var result []*Locus
	for i := hi - 1; i >= 0; i-- {
		// No locus in [0, i] reaches start.
		if iv.maxEnd[i] < start {
			break
		}
		if iv.loci[i].End >= start {
			result = append(result, iv.loci[i])
		}
	}

	// Restore start order.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// Len returns the number of indexed loci.
func (x *Index) Len() int {
	n := 0
	for _, iv := range x.chroms {
		n += len(iv.loci)
	}
	return n
}
