package splicing

// checkAlternativeFirstLastExon looks at identical exons in second or
// penultimate position whose neighbours (first or last exons) do not
// overlap at all.
func (cl *classifier) checkAlternativeFirstLastExon(i, j int) {
	m := cl.m

	if i == 2 && j == 2 && m.At(0, 0) == NoOverlap {
		cl.emitTerminalExon(EventAFE, m.rows[0], m.cols[0], m.rows[i], m.cols[j])
	}

	if i+3 == m.Rows() && j+3 == m.Cols() && m.At(i+2, j+2) == NoOverlap {
		cl.emitTerminalExon(EventALE, m.rows[i+2], m.cols[j+2], m.rows[i], m.cols[j])
	}
}

func (cl *classifier) emitTerminalExon(t EventType, alt1, alt2, flank1, flank2 *TranscriptFeature) {
	ev := cl.event(t, min(alt1.Start, alt2.Start), max(alt1.End, alt2.End))

	rowFirst := alt1.End < alt2.Start
	if !rowFirst {
		alt1, alt2 = alt2, alt1
	}
	ev.addA(alt1)
	ev.addB(alt2)

	ev.addConstitutive(flank1)
	if flank2 != flank1 && flank2.ID != flank1.ID {
		ev.ConstitutiveExons = append(ev.ConstitutiveExons, flank2)
	}

	ev.AddPair(cl.orient(rowFirst))
	cl.out.Append(ev)
}

// checkExonIsoform classifies two overlapping, non-identical exons.
func (cl *classifier) checkExonIsoform(i, j int, code OverlapCode) {
	m := cl.m
	f1, f2 := m.rows[i], m.cols[j]
	last1, last2 := m.Rows()-1, m.Cols()-1

	if i == 0 && j == 0 && code == Diff5PID3P {
		cl.emitBoundaryExon(EventAI, f1, f2)
	}
	if i == last1 && j == last2 && code == ID5PDiff3P {
		cl.emitBoundaryExon(EventAT, f1, f2)
	}

	same5p := m.relStart(f1) == m.relStart(f2)
	same3p := m.relEnd(f1) == m.relEnd(f2)
	hasPrev := i > 0 && j > 0
	hasNext := i < last1 && j < last2

	a3ss := same3p && !same5p && hasPrev &&
		(m.relStart(m.rows[i-1]) == m.relStart(m.cols[j-1]) ||
			(cl.relaxed && m.At(i-1, j-1).Has(Overlap)))

	a5ss := same5p && !same3p && hasNext &&
		(m.relEnd(m.rows[i+1]) == m.relEnd(m.cols[j+1]) ||
			(cl.relaxed && m.At(i+1, j+1).Has(Overlap)))

	isoform := !same5p && !same3p && hasPrev && hasNext &&
		m.At(i-1, j-1) != NoOverlap && m.At(i+1, j+1) != NoOverlap

	switch {
	case a3ss:
		cl.emitExonPair(EventA3SS, f1, f2)
	case a5ss:
		cl.emitExonPair(EventA5SS, f1, f2)
	case isoform:
		samePrevDonor := m.relStart(m.rows[i-1]) == m.relStart(m.cols[j-1])
		sameNextAcceptor := m.relEnd(m.rows[i+1]) == m.relEnd(m.cols[j+1])
		if cl.relaxed || (samePrevDonor && sameNextAcceptor) {
			cl.emitExonPair(EventEI, f1, f2)
		}
	}
}

// emitBoundaryExon records an alternative initiation or termination: both
// exons go to set A.
func (cl *classifier) emitBoundaryExon(t EventType, f1, f2 *TranscriptFeature) {
	ev := cl.event(t, min(f1.Start, f2.Start), max(f1.End, f2.End))
	ev.addA(f1)
	ev.addA(f2)
	ev.AddPair(cl.m.a, cl.m.b)
	cl.out.Append(ev)
}

// emitExonPair stores the longer exon in set A and the shorter in set B.
func (cl *classifier) emitExonPair(t EventType, f1, f2 *TranscriptFeature) {
	ev := cl.event(t, min(f1.Start, f2.Start), max(f1.End, f2.End))

	rowFirst := f1.Length() > f2.Length()
	if rowFirst {
		ev.addA(f1)
		ev.addB(f2)
	} else {
		ev.addA(f2)
		ev.addB(f1)
	}

	ev.AddPair(cl.orient(rowFirst))
	cl.out.Append(ev)
}
