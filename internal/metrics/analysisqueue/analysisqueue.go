// Package analysisqueue records anonymous analysis events in batches.
// Events never carry the password, only derived numbers.
package analysisqueue

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/store/dbx"
	"github.com/5w1tchy/strength-api/internal/strength"
)

//go:embed schema.sql
var schema string

// EnsureSchema creates analysis_events if missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	return dbx.ExecScript(ctx, db, schema)
}

type Event struct {
	Score       int
	EntropyBits float64
	Length      int
	ClassCount  int
	CrackTime   string
	Patterns    []strength.Pattern
	At          time.Time
}

// FromResult builds an event from an analysis.
func FromResult(r strength.Result, at time.Time) Event {
	return Event{
		Score:       r.Score,
		EntropyBits: r.EntropyBits,
		Length:      r.Length,
		ClassCount:  r.ClassCount,
		CrackTime:   r.BruteForceTime,
		Patterns:    r.Patterns,
		At:          at.UTC(),
	}
}

type Queue struct {
	db      *sql.DB
	ch      chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	stop    sync.Once
	dropped atomic.Uint64

	batchSize  int
	flushEvery time.Duration
	writeTO    time.Duration
}

const (
	DefaultBuffer  = 10000
	DefaultWorkers = 2

	batchSize  = 100
	flushEvery = 250 * time.Millisecond
	writeTO    = 500 * time.Millisecond
	insertTmpl = `INSERT INTO analysis_events (score, entropy_bits, length, class_count, crack_time, patterns, analyzed_at) VALUES %s`
)

// Start spins up workers reading from a buffered channel.
func Start(db *sql.DB, buf, workers int) *Queue {
	return start(db, buf, workers, flushEvery)
}

func start(db *sql.DB, buf, workers int, every time.Duration) *Queue {
	if buf <= 0 {
		buf = DefaultBuffer
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	q := &Queue{
		db:         db,
		ch:         make(chan Event, buf),
		done:       make(chan struct{}),
		batchSize:  batchSize,
		flushEvery: every,
		writeTO:    writeTO,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue queues an event without blocking. A full buffer drops it.
// Safe on a nil Queue.
func (q *Queue) Enqueue(ev Event) {
	if q == nil {
		return
	}
	select {
	case <-q.done:
		return
	default:
	}
	select {
	case q.ch <- ev:
	default:
		q.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded on a full buffer.
func (q *Queue) Dropped() uint64 {
	if q == nil {
		return 0
	}
	return q.dropped.Load()
}

// Shutdown stops the workers after flushing what is buffered.
func (q *Queue) Shutdown() {
	if q == nil {
		return
	}
	q.stop.Do(func() { close(q.done) })
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	tk := time.NewTicker(q.flushEvery)
	defer tk.Stop()

	batch := make([]Event, 0, q.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := q.insertBatch(batch); err != nil {
			zap.L().Warn("analysis events flush failed", zap.Int("n", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-q.done:
			for {
				select {
				case ev := <-q.ch:
					batch = append(batch, ev)
					if len(batch) >= q.batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case ev := <-q.ch:
			batch = append(batch, ev)
			if len(batch) >= q.batchSize {
				flush()
			}
		case <-tk.C:
			flush()
		}
	}
}

// patternList stores detected patterns as one comma-separated column.
func patternList(ps []strength.Pattern) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return strings.Join(names, ",")
}

func (q *Queue) insertBatch(batch []Event) error {
	// VALUES ($1,...,$7),($8,...,$14)...
	const cols = 7
	args := make([]any, 0, len(batch)*cols)
	vals := make([]string, 0, len(batch))
	for i, ev := range batch {
		b := cols * i
		vals = append(vals, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)", b+1, b+2, b+3, b+4, b+5, b+6, b+7))
		args = append(args, ev.Score, ev.EntropyBits, ev.Length, ev.ClassCount, ev.CrackTime, patternList(ev.Patterns), ev.At)
	}
	ctx, cancel := context.WithTimeout(context.Background(), q.writeTO)
	defer cancel()
	_, err := dbx.Exec(ctx, q.db, fmt.Sprintf(insertTmpl, strings.Join(vals, ",")), args...)
	return err
}
