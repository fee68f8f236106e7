package splicing

// classifier scans one matrix and collects the events it finds.
type classifier struct {
	m       *Matrix
	relaxed bool
	out     *Container
}

// ComputeSplicingEvents classifies every overlapping cell of the matrix and
// returns the events found between the two transcripts. In relaxed mode,
// flanking splice sites only need to overlap instead of being identical.
//
// An *InvariantError is returned if the matrix turns out to be inconsistent;
// the events of the pair should then be discarded.
func (m *Matrix) ComputeSplicingEvents(relaxed bool) (c *Container, err error) {
	cl := &classifier{m: m, relaxed: relaxed, out: NewContainer()}

	defer func() {
		if r := recover(); r != nil {
			v, ok := r.(invariantViolation)
			if !ok {
				panic(r)
			}
			c = nil
			err = &InvariantError{
				Gene:        m.a.GeneID(),
				TranscriptA: m.a.ID,
				TranscriptB: m.b.ID,
				Msg:         v.msg,
			}
		}
	}()

	for i := range m.rows {
		for j := range m.cols {
			if code := m.At(i, j); code != NoOverlap {
				cl.dispatch(i, j, code)
			}
		}
	}

	return cl.out, nil
}

func (cl *classifier) dispatch(i, j int, code OverlapCode) {
	m := cl.m
	f1, f2 := m.rows[i], m.cols[j]

	if f1.Type == FeatureTranscript || f2.Type == FeatureTranscript {
		violatef("transcript feature in feature list at (%d,%d)", i, j)
	}

	if code == ID5PID3P {
		if f1.IsExon() && f2.IsExon() {
			cl.checkAlternativeFirstLastExon(i, j)
		}
		return
	}

	switch {
	case f1.IsExon() && f2.IsExon():
		cl.checkExonIsoform(i, j, code)
	case f1.IsIntron() && f2.IsIntron():
		cl.checkIntronIsoform(i, j)
	case code == PartOf:
		s1, s2 := m.relStart(f1), m.relStart(f2)
		if (s1 < s2 && f1.IsExon()) || (s2 < s1 && f2.IsExon()) {
			cl.checkIntronRetention(i, j)
			return
		}
		cl.checkCassetteExon(i, j)
		if f1.IsExon() {
			cl.checkMutualExclusion(i, j)
		}
	}
}

// event creates an event of the pair's gene spanning [start, end].
func (cl *classifier) event(t EventType, start, end int64) *Event {
	a := cl.m.a
	return newEvent(t, a.Gene, a.Chrom, a.Strand, start, end)
}

// orient returns the pair ordered so that the row transcript comes first
// when rowFirst is true.
func (cl *classifier) orient(rowFirst bool) (*Transcript, *Transcript) {
	if rowFirst {
		return cl.m.a, cl.m.b
	}
	return cl.m.b, cl.m.a
}
