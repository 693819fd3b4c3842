package geolog

import (
	"geotrace/internal/compute"
)

// ModifierLog owns all trace data for one evaluation pass of one modifier.
// During evaluation each worker writes into its own slot; nothing is shared
// between workers. After evaluation the UI asks for TreeLogs, which are
// built on first access and cached.
//
// A ModifierLog is discarded whole when the modifier re-evaluates. TreeLog
// and ValueLog pointers handed out become invalid at that point and must
// not be retained across passes.
type ModifierLog struct {
	locals []localData

	// treeLogs is only touched from the read path, which is
	// single-threaded by contract; check-then-insert prevents double
	// builds.
	treeLogs map[compute.Hash]*TreeLog
}

type loggerEntry struct {
	hash   compute.Hash
	logger *TreeLogger
}

// localData is one worker's slot. The worker index is assigned at pool
// creation, so no two workers ever touch the same slot.
type localData struct {
	byContext map[compute.Hash]*TreeLogger
	// order preserves first-use order of contexts within this slot; map
	// iteration alone would make reduction nondeterministic.
	order []loggerEntry
}

// NewModifierLog creates the store for an evaluation pass executed by the
// given number of workers.
func NewModifierLog(workers int) *ModifierLog {
	if workers < 1 {
		workers = 1
	}
	return &ModifierLog{
		locals:   make([]localData, workers),
		treeLogs: make(map[compute.Hash]*TreeLog),
	}
}

// WorkerCount returns the number of worker slots.
func (m *ModifierLog) WorkerCount() int {
	return len(m.locals)
}

// LocalLogger returns the given worker's logger for ctx, creating it on
// first use. Creation records the parent link and registers the new
// context with the worker-local parent logger. Only the owning worker may
// call this with its index; separate workers logging the same context get
// separate loggers, reconciled later in TreeLog.
func (m *ModifierLog) LocalLogger(worker int, ctx compute.Context) *TreeLogger {
	slot := &m.locals[worker]
	if slot.byContext == nil {
		slot.byContext = make(map[compute.Hash]*TreeLogger)
	}
	hash := ctx.Hash()
	if l, ok := slot.byContext[hash]; ok {
		return l
	}
	l := &TreeLogger{}
	if parent := ctx.Parent(); parent != nil {
		l.ParentHash = parent.Hash()
		if id, ok := compute.SpawnerNodeID(ctx); ok {
			l.ParentNodeID = id
			l.HasParentNode = true
		}
		parentLogger := m.LocalLogger(worker, parent)
		parentLogger.ChildrenHashes = append(parentLogger.ChildrenHashes, hash)
	}
	slot.byContext[hash] = l
	slot.order = append(slot.order, loggerEntry{hash: hash, logger: l})
	return l
}

// HasContext reports whether any worker logged into the context.
func (m *ModifierLog) HasContext(hash compute.Hash) bool {
	for i := range m.locals {
		if _, ok := m.locals[i].byContext[hash]; ok {
			return true
		}
	}
	return false
}

// TreeLog returns the reduced log for a context hash, building it on first
// request. A context that logged nothing yields a valid empty log, never
// nil; unexecuted branches are a normal query target.
func (m *ModifierLog) TreeLog(hash compute.Hash) *TreeLog {
	if t, ok := m.treeLogs[hash]; ok {
		return t
	}

	var loggers []*TreeLogger
	for i := range m.locals {
		for _, e := range m.locals[i].order {
			if e.hash == hash {
				loggers = append(loggers, e.logger)
			}
		}
	}

	var children []compute.Hash
	seen := make(map[compute.Hash]struct{})
	for _, l := range loggers {
		for _, h := range l.ChildrenHashes {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			children = append(children, h)
		}
	}

	t := newTreeLog(m, loggers, children)
	m.treeLogs[hash] = t
	return t
}
