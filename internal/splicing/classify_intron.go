package splicing

// checkIntronIsoform records two overlapping, non-identical introns whose
// flanking exons overlap on both sides.
func (cl *classifier) checkIntronIsoform(i, j int) {
	m := cl.m
	if !m.inBounds(i-1, j-1) || !m.inBounds(i+1, j+1) {
		return
	}
	if m.At(i-1, j-1) == NoOverlap || m.At(i+1, j+1) == NoOverlap {
		return
	}

	f1, f2 := m.rows[i], m.cols[j]
	ev := cl.event(EventII, min(f1.Start, f2.Start), max(f1.End, f2.End))

	flanks1 := []*TranscriptFeature{m.rows[i-1], m.rows[i+1]}
	flanks2 := []*TranscriptFeature{m.cols[j-1], m.cols[j+1]}

	rowFirst := f1.Length() > f2.Length()
	if rowFirst {
		ev.SetA, ev.SetB = flanks1, flanks2
		ev.SitesA, ev.SitesB = []Site{f1.site()}, []Site{f2.site()}
	} else {
		ev.SetA, ev.SetB = flanks2, flanks1
		ev.SitesA, ev.SitesB = []Site{f2.site()}, []Site{f1.site()}
	}

	ev.AddPair(cl.orient(rowFirst))
	cl.out.Append(ev)
}

// checkIntronRetention records an exon of one transcript covering an
// intron of the other. The exons of the splicing transcript that overlap
// the retaining exon form set B.
func (cl *classifier) checkIntronRetention(i, j int) {
	m := cl.m
	rowExon := m.rows[i].IsExon()

	// code returns the overlap between the retaining exon and feature k of
	// the splicing transcript.
	code := func(k int) OverlapCode {
		if rowExon {
			return m.At(i, k)
		}
		return m.At(k, j)
	}
	exon, idx, size, features := m.rows[i], j, m.Cols(), m.cols
	if !rowExon {
		exon, idx, size, features = m.cols[j], i, m.Rows(), m.rows
	}

	if idx-1 < 0 || idx+1 >= size || !code(idx-1).Has(Overlap) || !code(idx+1).Has(Overlap) {
		return
	}

	var chain []*TranscriptFeature
	for k := idx - 1; k >= 0 && code(k).Has(Overlap); k -= 2 {
		chain = append([]*TranscriptFeature{features[k]}, chain...)
	}
	for k := idx + 1; k < size && code(k).Has(Overlap); k += 2 {
		chain = append(chain, features[k])
	}

	span := exon.Coordinates
	for _, f := range chain {
		if !f.IsExon() {
			violatef("intron %s collected as retained exon neighbour", f.ID)
		}
		span.Widen(f.Coordinates)
	}

	ev := cl.event(EventIR, span.Start, span.End)
	ev.addA(exon)
	for _, f := range chain {
		ev.addB(f)
	}
	ev.AddPair(cl.orient(rowExon))
	cl.out.Insert(ev)
}

// checkCassetteExon records exons of one transcript lying inside an intron
// of the other, provided the exons flanking the intron share splice sites
// with the exons around the skipped ones.
func (cl *classifier) checkCassetteExon(i, j int) {
	m := cl.m
	rowExon := m.rows[i].IsExon()

	// Walk along the exon's transcript; the intron stays fixed.
	exon, intron, idx, size, features := m.rows[i], m.cols[j], i, m.Rows(), m.rows
	code := func(k int) OverlapCode { return m.At(k, j) }
	flank := func(k, d int) OverlapCode { return m.At(k, j+d) }
	if !rowExon {
		exon, intron, idx, size, features = m.cols[j], m.rows[i], j, m.Cols(), m.cols
		code = func(k int) OverlapCode { return m.At(i, k) }
		flank = func(k, d int) OverlapCode { return m.At(i+d, k) }
	}

	var cassette []*TranscriptFeature

	up := idx - 1
	for ; up >= 0; up-- {
		c := code(up)
		if c != PartOf && c != ID5PDiff3P {
			break
		}
		if features[up].IsExon() {
			cassette = append([]*TranscriptFeature{features[up]}, cassette...)
		}
	}
	cassette = append(cassette, exon)

	matched5p := up >= 0 && ((cl.relaxed && flank(up, -1).Has(Overlap)) || flank(up, -1).Has(ID3P))
	if !matched5p {
		return
	}

	down := idx + 1
	for ; down < size; down++ {
		c := code(down)
		if c != PartOf && c != Diff5PID3P {
			break
		}
		if features[down].IsExon() {
			cassette = append(cassette, features[down])
		}
	}

	matched3p := down < size && ((cl.relaxed && flank(down, 1).Has(Overlap)) || flank(down, 1).Has(ID5P))
	if !matched3p {
		return
	}

	ev := cl.event(EventCE, intron.Start, intron.End)
	for _, f := range cassette {
		ev.addA(f)
	}
	ev.AddPair(cl.orient(!rowExon))
	cl.out.Insert(ev)
}

// checkMutualExclusion starts from an exon of the row transcript inside an
// intron of the column transcript and scans both directions for the exons
// that close the alternative region on the column transcript.
func (cl *classifier) checkMutualExclusion(i, j int) {
	m := cl.m
	f1 := m.rows[i]

	var groupA, groupB []*TranscriptFeature

	// 5' side
	exclusive5p, seek := false, true
	var pos5p int64
	r, c := i, j
	for r >= 0 && c >= 0 && seek {
		if m.rows[r].IsIntron() {
			r--
			continue
		}
		if m.At(r, c) == PartOf && m.cols[c].IsIntron() && m.relStart(m.cols[c]) < m.relStart(m.rows[r]) {
			groupA = append([]*TranscriptFeature{m.rows[r]}, groupA...)
			r--
			continue
		}

		for c--; c >= 0 && seek; c-- {
			code := m.At(r, c)
			if code.Has(Overlap) {
				if m.cols[c].IsIntron() {
					break
				}
				seek = false
				if code.Has(ID3P) || cl.relaxed {
					exclusive5p = true
					pos5p = m.cols[c].Start
					if m.forward() {
						pos5p = m.cols[c].End
					}
				}
				break
			}
			if m.cols[c].IsExon() && m.relStart(m.cols[c]) > m.relEnd(m.rows[r]) {
				groupB = append([]*TranscriptFeature{m.cols[c]}, groupB...)
			}
		}
	}

	// 3' side
	exclusive3p, seek := false, true
	var pos3p int64
	r, c = i, j
	for r < m.Rows() && c < m.Cols() && seek {
		if m.rows[r].IsIntron() {
			r++
			continue
		}
		if m.At(r, c) == PartOf && m.relStart(m.cols[c]) < m.relStart(m.rows[r]) {
			if m.rows[r] != f1 {
				groupA = append(groupA, m.rows[r])
			}
			r++
			continue
		}

		for c++; c < m.Cols() && seek; c++ {
			code := m.At(r, c)
			if code.Has(Overlap) {
				if m.cols[c].IsIntron() {
					break
				}
				seek = false
				if code.Has(ID5P) || cl.relaxed {
					exclusive3p = true
					pos3p = m.cols[c].End
					if m.forward() {
						pos3p = m.cols[c].Start
					}
				}
				break
			}
			if m.cols[c].IsExon() && m.relEnd(m.cols[c]) < m.relStart(m.rows[r]) {
				groupB = append(groupB, m.cols[c])
			}
		}
	}

	if !exclusive5p || !exclusive3p || len(groupA) == 0 || len(groupB) == 0 {
		return
	}

	start, end := pos5p, pos3p
	if !m.forward() {
		start, end = pos3p, pos5p
	}
	ev := cl.event(EventMXE, start, end)

	rowFirst := groupA[0].Start < groupB[0].Start
	if !rowFirst {
		groupA, groupB = groupB, groupA
	}
	for _, f := range groupA {
		ev.addA(f)
	}
	for _, f := range groupB {
		ev.addB(f)
	}
	ev.AddPair(cl.orient(rowFirst))
	cl.out.Insert(ev)
}
