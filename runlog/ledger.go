package runlog

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/synthgen"
)

const (
	execTable     = "exec_info"
	artifactTable = "artifacts"
	timeLayout    = "2006-01-02 15:04:05.000000000"
)

type execInfo struct {
	RunID    string
	Property string
	Value    string
}

type artifactEntry struct {
	RunID     string
	Module    string
	Filename  string
	Status    string
	ErrorKind string
	Message   string
	Digest    string
}

// A Ledger records which artifacts a run produced.
type Ledger struct {
	mu       sync.Mutex
	runID    string
	recorder DataRecorder
	closed   bool

	// err is the first insert failure, reported by Close.
	err error
}

// Open creates a new ledger database at path. The database is flushed and
// closed at exit if Close was not called.
func Open(path string) (*Ledger, error) {
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		return nil, synthgen.WrapIO("open run ledger", err)
	}

	l, err := NewLedger(r)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	atexit.Register(func() { _ = l.Close() })

	return l, nil
}

// NewLedger creates a ledger on top of a recorder.
func NewLedger(r DataRecorder) (*Ledger, error) {
	l := &Ledger{
		runID:    xid.New().String(),
		recorder: r,
	}

	if err := r.CreateTable(execTable, execInfo{}); err != nil {
		return nil, synthgen.WrapIO("open run ledger", err)
	}

	if err := r.CreateTable(artifactTable, artifactEntry{}); err != nil {
		return nil, synthgen.WrapIO("open run ledger", err)
	}

	return l, nil
}

// RunID returns the unique id of the run.
func (l *Ledger) RunID() string {
	return l.runID
}

// Start records the start time and the command line.
func (l *Ledger) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.insertExec(
		execInfo{l.runID, "Start Time", time.Now().Format(timeLayout)},
		execInfo{l.runID, "Command", strings.Join(os.Args, " ")},
	)
}

// RecordArtifact records the outcome of writing one artifact. A nil err
// means the artifact was written with the given content.
func (l *Ledger) RecordArtifact(module, filename string, content []byte, err error) {
	e := artifactEntry{
		RunID:    l.runID,
		Module:   module,
		Filename: filename,
		Status:   "written",
	}

	if err != nil {
		e.Status = "failed"
		e.ErrorKind = synthgen.KindOf(err).String()
		e.Message = err.Error()
	} else {
		sum := sha256.Sum256(content)
		e.Digest = hex.EncodeToString(sum[:])
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	if err := l.recorder.InsertData(artifactTable, e); err != nil && l.err == nil {
		l.err = err
	}
}

// Close records the end time, flushes and closes the database. The database
// is closed even if recording failed. The first recording failure is
// returned together with any close failure.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true

	err := l.insertExec(execInfo{l.runID, "End Time", time.Now().Format(timeLayout)})
	if err != nil && l.err == nil {
		l.err = err
	}

	closeErr := l.recorder.Close()

	return synthgen.WrapIO("close run ledger", errors.Join(l.err, closeErr))
}

func (l *Ledger) insertExec(entries ...execInfo) error {
	for _, e := range entries {
		if err := l.recorder.InsertData(execTable, e); err != nil {
			return err
		}
	}

	return nil
}
