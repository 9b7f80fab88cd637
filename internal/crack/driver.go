package crack

import (
	"runtime"
	"sync"
	"sync/atomic"

	"zipcrack/internal/candidate"
	"zipcrack/internal/zipfile"
)

// Result is the outcome of a completed search.
type Result struct {
	Found    bool
	Password []byte
}

// found is the shared, mutex-guarded result slot every worker races to fill;
// only the first success is kept, the rest are discarded once the stop flag
// is observed.
type found struct {
	mu    sync.Mutex
	stop  atomic.Bool
	value []byte
}

func (f *found) tryAccept(password []byte) {
	if f.stop.Load() {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stop.Load() {
		return
	}
	f.value = append([]byte(nil), password...)
	f.stop.Store(true)
}

// checkBatch is how often a worker polls the stop flag while churning
// through a candidate range, balancing cancellation latency against the
// overhead of an atomic load per attempt.
const checkBatch = 1024

// numWorkers resolves the worker count: an explicit override, or
// runtime.NumCPU().
func numWorkers(override int) int {
	if override > 0 {
		return override
	}
	return runtime.NumCPU()
}

// Progress, if non-nil, is invoked periodically, concurrently from any of the
// workers, with a running count of candidates checked so far (summed across
// workers, sampled — not exact). Nil disables progress reporting.
type Options struct {
	Workers  int
	Progress func(checked uint64)
}

// SearchBrute sweeps every encrypted entry in entries against every
// candidate in src, partitioning the index space across a worker pool. It
// returns the first password that opens any entry.
func SearchBrute(entries []zipfile.LocalFile, src *candidate.BruteSource, opts Options) Result {
	fnd := &found{}
	workers := numWorkers(opts.Workers)

	begin := candidate.Index{}
	total := src.Cardinality()
	if total.Equal(begin) {
		return Result{}
	}

	// Partition [0, total) into contiguous per-worker subranges in full
	// 128-bit arithmetic; collapsing the cardinality into a uint64 first
	// would silently truncate spaces like 95^12.
	chunk := total.Div(uint64(workers))
	if chunk.Equal(begin) {
		chunk = begin.Add(1)
	}

	var wg sync.WaitGroup
	var checkedTotal atomic.Uint64

	for w := 0; w < workers; w++ {
		start := chunk.Mul(uint64(w))
		end := chunk.Mul(uint64(w) + 1)
		if w == workers-1 || total.Less(end) {
			end = total
		}
		if !start.Less(end) {
			continue
		}

		wg.Add(1)
		go func(start, end candidate.Index) {
			defer wg.Done()
			attempt := NewAttempt()
			cur := src.NewCursor(start)

			count := uint64(0)
			for cur.Index().Less(end) {
				if count%checkBatch == 0 {
					if fnd.stop.Load() {
						return
					}
					if opts.Progress != nil && count > 0 {
						opts.Progress(checkedTotal.Add(checkBatch))
					}
				}
				count++

				pw := cur.Password()
				for _, e := range entries {
					if !e.IsEncrypted() {
						continue
					}
					if attempt.Verify(e, pw) {
						fnd.tryAccept(pw)
						return
					}
				}
				cur.Next()
			}
			if opts.Progress != nil {
				checkedTotal.Add(count % checkBatch)
				opts.Progress(checkedTotal.Load())
			}
		}(start, end)
	}

	wg.Wait()

	if fnd.value != nil {
		return Result{Found: true, Password: fnd.value}
	}
	return Result{}
}

// SearchDictionary sweeps every encrypted entry against every candidate
// drawn from a dictionary source, partitioning the dictionary's byte range
// across a worker pool, realigned to line boundaries.
func SearchDictionary(entries []zipfile.LocalFile, src *candidate.DictionarySource, opts Options) Result {
	fnd := &found{}
	workers := numWorkers(opts.Workers)

	total := src.Len()
	if total == 0 {
		return Result{}
	}
	chunk := total / workers
	if chunk == 0 {
		chunk = total
		workers = 1
	}

	type span struct{ start, end int }
	var spans []span
	pos := 0
	for w := 0; w < workers && pos < total; w++ {
		nominal := pos + chunk
		if w == workers-1 || nominal >= total {
			nominal = total
		}
		end := src.LineBoundaryAfter(nominal)
		if end > total {
			end = total
		}
		if end <= pos {
			end = total
		}
		spans = append(spans, span{start: pos, end: end})
		pos = end
	}

	var wg sync.WaitGroup
	var checkedTotal atomic.Uint64

	for _, s := range spans {
		if s.start >= s.end {
			continue
		}
		wg.Add(1)
		go func(s span) {
			defer wg.Done()
			attempt := NewAttempt()
			cur := src.NewCursor(s.start, s.end)

			count := uint64(0)
			for !cur.Done() {
				if count%checkBatch == 0 {
					if fnd.stop.Load() {
						return
					}
					if opts.Progress != nil && count > 0 {
						opts.Progress(checkedTotal.Add(checkBatch))
					}
				}
				count++

				pw := cur.Next()
				for _, e := range entries {
					if !e.IsEncrypted() {
						continue
					}
					if attempt.Verify(e, pw) {
						fnd.tryAccept(pw)
						return
					}
				}
			}
			if opts.Progress != nil {
				checkedTotal.Add(count % checkBatch)
				opts.Progress(checkedTotal.Load())
			}
		}(s)
	}

	wg.Wait()

	if fnd.value != nil {
		return Result{Found: true, Password: fnd.value}
	}
	return Result{}
}
