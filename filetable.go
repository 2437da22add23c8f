// filetable.go - handle-based file table shared across a DOS session,
// with DOS's lowest-free-handle and refcounted-duplicate-open rules.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's sorted-slot device-table pattern (its
// coprocessor worker registry keeps a sorted slice of live IDs and
// scans for the lowest free one on registration); reused here for file
// handles per §4.4's "sorting the table before scanning" rule.

package main

import (
	"io"
	"os"
	"sort"
)

const (
	handleStdin  = 0
	handleStdout = 1
	handleStderr = 2
	handleStdaux = 3
	handleStdprn = 4
	firstUserHdl = 5
)

// fileEntry is one open file, possibly shared by several handles of
// the same process via DUP.
type fileEntry struct {
	hostPath string
	file     *os.File
	writable bool
	ownerPSP uint16
	refcount int
}

// FileTable owns every open handle-based file for the running session.
// Handles 0-4 are the reserved standard streams and are never placed in
// the entries map; stdout/stderr route through the video mirror when
// the active mode is text, per §4.4.
type FileTable struct {
	entries map[int]*fileEntry
	paths   map[string]int // host path -> handle, for duplicate-open reuse
}

func NewFileTable() *FileTable {
	return &FileTable{
		entries: make(map[int]*fileEntry),
		paths:   make(map[string]int),
	}
}

func (t *FileTable) lowestFreeHandle() int {
	used := make([]int, 0, len(t.entries))
	for h := range t.entries {
		used = append(used, h)
	}
	sort.Ints(used)
	next := firstUserHdl
	for _, h := range used {
		if h == next {
			next++
		} else if h > next {
			break
		}
	}
	return next
}

// Open opens an existing file. If the same host path is already open
// for this PSP's session, the existing handle is reused and its
// refcount bumped rather than opening a second OS-level stream.
func (t *FileTable) Open(hostPath string, writable bool, owner uint16) (int, error) {
	if h, ok := t.paths[hostPath]; ok {
		e := t.entries[h]
		e.refcount++
		e.file.Seek(0, io.SeekStart)
		return h, nil
	}
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(hostPath, flag, 0)
	if err != nil {
		return 0, err
	}
	h := t.lowestFreeHandle()
	t.entries[h] = &fileEntry{hostPath: hostPath, file: f, writable: writable, ownerPSP: owner, refcount: 1}
	t.paths[hostPath] = h
	return h, nil
}

// Create truncates-or-creates a file for writing.
func (t *FileTable) Create(hostPath string, owner uint16) (int, error) {
	f, err := os.OpenFile(hostPath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return 0, err
	}
	h := t.lowestFreeHandle()
	t.entries[h] = &fileEntry{hostPath: hostPath, file: f, writable: true, ownerPSP: owner, refcount: 1}
	t.paths[hostPath] = h
	return h, nil
}

func (t *FileTable) Close(handle int) bool {
	e, ok := t.entries[handle]
	if !ok {
		return false
	}
	e.refcount--
	others := 0
	for h, o := range t.entries {
		if o == e && h != handle {
			others++
		}
	}
	if e.refcount > others {
		return true // a repeated Open of the same path still holds this handle
	}
	delete(t.entries, handle)
	if t.paths[e.hostPath] == handle {
		delete(t.paths, e.hostPath)
	}
	if e.refcount <= 0 {
		e.file.Close()
	}
	return true
}

func (t *FileTable) Read(handle int, buf []byte) (int, error) {
	e, ok := t.entries[handle]
	if !ok {
		return 0, os.ErrInvalid
	}
	n, err := e.file.Read(buf)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (t *FileTable) Write(handle int, buf []byte) (int, error) {
	e, ok := t.entries[handle]
	if !ok {
		return 0, os.ErrInvalid
	}
	return e.file.Write(buf)
}

func (t *FileTable) Seek(handle int, offset int64, whence int) (int64, error) {
	e, ok := t.entries[handle]
	if !ok {
		return 0, os.ErrInvalid
	}
	return e.file.Seek(offset, whence)
}

// Dup shares the underlying stream with a new handle number, bumping
// refcount. Both handles must be closed before the OS file closes.
func (t *FileTable) Dup(handle int) (int, bool) {
	e, ok := t.entries[handle]
	if !ok {
		return 0, false
	}
	e.refcount++
	nh := t.lowestFreeHandle()
	t.entries[nh] = e
	return nh, true
}

// CloseOwnedBy flushes and closes every handle belonging to a
// terminating PSP, per §4.5's exit funnel.
func (t *FileTable) CloseOwnedBy(owner uint16) {
	for h, e := range t.entries {
		if e.ownerPSP == owner {
			for t.Close(h) {
			}
		}
	}
}

func (t *FileTable) IsValid(handle int) bool {
	if handle >= 0 && handle < firstUserHdl {
		return true
	}
	_, ok := t.entries[handle]
	return ok
}
