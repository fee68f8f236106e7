package detect

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := range n {
		ch <- WorkItem{Seq: i, Locus: cassetteLocus(fmt.Sprintf("G%d", i))}
	}
	close(ch)
	return ch
}

func TestParallelDetect_OrderPreservation(t *testing.T) {
	for _, workers := range []int{1, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			d := NewDetector(Options{})

			var genes []string
			err := OrderedCollect(d.ParallelDetect(makeItems(100), workers), func(r WorkResult) error {
				require.NoError(t, r.Result.Err)
				assert.Equal(t, fmt.Sprintf("G%d", r.Seq), r.Result.Locus.Gene.ID)
				genes = append(genes, r.Result.Locus.Gene.ID)
				return nil
			})
			require.NoError(t, err)

			require.Len(t, genes, 100)
			for i, g := range genes {
				assert.Equal(t, fmt.Sprintf("G%d", i), g)
			}
		})
	}
}

func TestOrderedCollect_OutOfOrder(t *testing.T) {
	ch := make(chan WorkResult, 4)
	for _, seq := range []int{2, 0, 3, 1} {
		ch <- WorkResult{Seq: seq}
	}
	close(ch)

	var seqs []int
	require.NoError(t, OrderedCollect(ch, func(r WorkResult) error {
		seqs = append(seqs, r.Seq)
		return nil
	}))
	assert.Equal(t, []int{0, 1, 2, 3}, seqs)
}

func TestOrderedCollect_ErrorDrains(t *testing.T) {
	ch := make(chan WorkResult, 5)
	for i := range 5 {
		ch <- WorkResult{Seq: i}
	}
	close(ch)

	stop := errors.New("stop")
	calls := 0
	err := OrderedCollect(ch, func(r WorkResult) error {
		calls++
		if r.Seq == 1 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
	_, open := <-ch
	assert.False(t, open)
}
