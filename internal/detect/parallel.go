package detect

import (
	"runtime"
	"sync"
	"time"

	"github.com/inodb/vibe-splice/internal/gtf"
)

// WorkItem is one gene queued for detection. Seq is its input position.
type WorkItem struct {
	Seq   int
	Locus *gtf.Locus
}

// WorkResult pairs a gene result with the input position of its gene.
type WorkResult struct {
	Seq     int
	Result  *GeneResult
	Elapsed time.Duration
}

// ParallelDetect runs Process on items with a fixed pool of workers and
// closes the returned channel once items is drained. Results arrive in
// completion order; OrderedCollect restores input order.
// If workers is 0, runtime.NumCPU() is used.
func (d *Detector) ParallelDetect(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.work(items, out)
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func (d *Detector) work(items <-chan WorkItem, out chan<- WorkResult) {
	for item := range items {
		start := time.Now()
		res := d.Process(item.Locus)
		out <- WorkResult{Seq: item.Seq, Result: res, Elapsed: time.Since(start)}
	}
}

// OrderedCollect hands results to fn by increasing Seq, holding back those
// that arrive early. Once fn fails, the remaining results are drained so the
// workers can exit, and fn's error is returned.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0

	var err error
	for r := range results {
		if err != nil {
			continue
		}
		held[r.Seq] = r
		for err == nil {
			ready, ok := held[next]
			if !ok {
				break
			}
			delete(held, next)
			next++
			err = fn(ready)
		}
	}

	return err
}
