package dbg

// never use fmt in threads!

import (
	"errors"
	"io"
	"maps"
	"slices"
)

/*
QueueSink: a Sink that decouples Log calls from slow outputs. Lines are queued
on a channel and written by one background goroutine, in arrival order, to
every enabled output. Responsible for:
  - the sink lifecycle (Start, Stop, Wait, StopAndWait)
  - running the processor goroutine that reads from the channel
  - writing lines to outputs and disabling outputs that panic
  - error reporting to the fallback writer

Lines written while the sink is not active are reported to the fallback
writer, never to the caller.

Preferred usage example:

	func main() {
	    q := dbg.NewQueueSink(os.Stderr, os.Stderr)
	    q.Start(-1)
	    defer q.StopAndWait()
	    dbg.Reset(os.Getenv("DEBUG"), dbg.WithSink(q))
	    ...
	}
*/

// NewQueueSink creates a stopped QueueSink with the provided outputs and
// fallback (nil fallback becomes io.Discard). Start it before use.
func NewQueueSink(fallback OutType, outputs ...OutType) *QueueSink {
	q := new(QueueSink)
	q.state = _STATE_STOPPED
	q.outputs = outList{}
	q.SetFallback(fallback)
	q.AddOutputs(outputs...)
	return q
}

// Start launches the background goroutine that writes queued lines. An error
// is returned if the sink is active, or stopping (the previous goroutine is
// still draining its queue: Wait for it first). The channel is created with
// the provided buffsize (DEFAULT_MSG_BUFF for non-positive values).
func (q *QueueSink) Start(buffsize int) error {
	q.sync.statMtx.Lock()
	defer q.sync.statMtx.Unlock()
	switch q.state {
	case _STATE_ACTIVE:
		return errors.New(_ERROR_MESSAGE_SINK_STARTED)
	case _STATE_STOPPING:
		return errors.New(_ERROR_MESSAGE_SINK_STOPPING)
	}
	if buffsize <= 0 {
		buffsize = DEFAULT_MSG_BUFF
	}
	ch := make(chan string, buffsize)
	q.channel = ch
	q.sync.waitEnd.Go(func() { q.procced(ch) })
	q.state = _STATE_ACTIVE
	return nil
}

// Stop closes the queue. Lines already queued are still written; Wait blocks
// until they are.
func (q *QueueSink) Stop() {
	q.sync.statMtx.Lock()
	defer q.sync.statMtx.Unlock()
	if q.IsActive() {
		q.state = _STATE_STOPPING
		close(q.channel)
	}
}

// Wait blocks until the background goroutine has finished.
func (q *QueueSink) Wait() {
	q.sync.waitEnd.Wait()
}

// StopAndWait is Stop followed by Wait.
func (q *QueueSink) StopAndWait() {
	q.Stop()
	q.Wait()
}

// True if the sink is in active state (i.e. ready to queue lines).
func (q *QueueSink) IsActive() bool {
	return q.state == _STATE_ACTIVE
}

// Sets the fallback output used to report internal errors, io.Discard is used
// instead of nil to silently drop fallback messages.
func (q *QueueSink) SetFallback(f OutType) *QueueSink {
	q.sync.fbckMtx.Lock()
	defer q.sync.fbckMtx.Unlock()
	if f != nil {
		q.fallbck = f
	} else {
		q.fallbck = io.Discard
	}
	return q
}

// Attaches one or more outputs. Nil outputs are ignored.
func (q *QueueSink) AddOutputs(outputs ...OutType) *QueueSink {
	q.operateOutputs(outputs, func(m outList, k OutType) {
		m[k] = &outContext{enabled: true}
	})
	return q
}

// Removes the provided outputs. No errors if there is no such output.
func (q *QueueSink) RemoveOutputs(outputs ...OutType) *QueueSink {
	q.operateOutputs(outputs, func(m outList, k OutType) { delete(m, k) })
	return q
}

// Removes all outputs.
func (q *QueueSink) ClearOutputs() *QueueSink {
	q.sync.outsMtx.RLock()
	keys := slices.Collect(maps.Keys(q.outputs))
	q.sync.outsMtx.RUnlock()
	return q.RemoveOutputs(keys...)
}

// Returns whether an output is attached and enabled for writes.
func (q *QueueSink) IsOutputEnabled(out OutType) bool {
	q.sync.outsMtx.RLock()
	defer q.sync.outsMtx.RUnlock()
	c := q.outputs[out]
	return c != nil && c.enabled
}

// Helper that applies the operation for each non-nil output with the outputs
// mutex held.
func (q *QueueSink) operateOutputs(slice []OutType, operation func(m outList, k OutType)) {
	if len(slice) == 0 {
		return
	}
	q.sync.outsMtx.Lock()
	defer q.sync.outsMtx.Unlock()
	for _, output := range slice {
		if output != nil {
			operation(q.outputs, output)
		}
	}
}

// WriteDebug implements Sink: the line is queued for the background writer.
func (q *QueueSink) WriteDebug(line string) {
	if err := q.pushLine(line); err != nil {
		q.fbckWriteln("error queueing debug line: " + err.Error())
	}
}

// Attempts to enqueue a line. Catches any panics (including writing to the
// closed channel) and converts them to errors.
func (q *QueueSink) pushLine(line string) (err error) {
	q.sync.statMtx.RLock()
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("panic" + panicDesc(r))
		}
		q.sync.statMtx.RUnlock()
	}()
	if !q.IsActive() {
		err = errors.New(_ERROR_MESSAGE_SINK_INACTIVE)
	} else if q.channel == nil {
		err = errors.New(_ERROR_MESSAGE_CHANNEL_NIL)
	} else {
		q.channel <- line
	}
	return err
}

/////////////////////////////////////////////////////////////////////////////////////////

// fbckWriteln writes a single-line message to the fallback writer.
func (q *QueueSink) fbckWriteln(s string) {
	q.sync.fbckMtx.RLock()
	defer q.sync.fbckMtx.RUnlock()
	q.fallbck.Write([]byte(s + "\n"))
}

// setState sets the sink state with write locking; normalizes the provided
// state before assignment.
func (q *QueueSink) setState(newstate sinkState) {
	q.sync.statMtx.Lock()
	defer q.sync.statMtx.Unlock()
	q.state = normState(newstate)
}

// procced is the background loop. It reads lines from ch (the channel of its
// own run) until ch is closed and writes each one to the outputs.
//
// The function recovers panics to ensure the background goroutine doesn't die
// silently; recover triggers a fallback write and ensures state is moved to
// STATE_STOPPED before returning.
func (q *QueueSink) procced(ch <-chan string) {
	defer func() {
		if r := recover(); r != nil {
			q.fbckWriteln("panic proceeding debug line" + panicDesc(r))
		}
		q.setState(_STATE_STOPPED)
	}()
	for line := range ch {
		q.lineToOutputs(line)
	}
}

// lineToOutputs writes the line to each enabled output. If a write panics the
// output is disabled to avoid repeated panics; write errors are passed to the
// fallback writer.
func (q *QueueSink) lineToOutputs(line string) {
	q.sync.outsMtx.Lock()
	defer q.sync.outsMtx.Unlock()
	for output, settings := range q.outputs {
		if output != nil && settings != nil && settings.enabled {
			panicked, err := writeLine(output, line)
			if panicked {
				settings.enabled = false
			}
			if err != nil {
				q.fbckWriteln(err.Error())
			}
		}
	}
}
