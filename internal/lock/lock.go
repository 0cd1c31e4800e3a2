// Package lock guards a profile directory so only one interactive console
// owns its persisted credential at a time.
package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const fileName = "LOCK"

// Holder describes the process that wrote the lock file.
type Holder struct {
	PID      int
	Owner    string
	Acquired time.Time
}

// HeldError is returned when another process holds the profile lock.
type HeldError struct {
	Holder Holder
	Path   string
}

func (e *HeldError) Error() string {
	owner := e.Holder.Owner
	if owner == "" {
		owner = "another console"
	}
	return fmt.Sprintf("profile in use by %s (pid %d, %s)", owner, e.Holder.PID, e.Path)
}

// Lock is an acquired profile lock.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes an exclusive, non-blocking flock on dir/LOCK and records
// owner and the current pid in it.
func Acquire(dir, owner string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	path := filepath.Join(dir, fileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		h, _ := Read(dir)
		return nil, &HeldError{Holder: h, Path: path}
	}

	h := Holder{PID: os.Getpid(), Owner: owner, Acquired: time.Now().UTC()}
	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.WriteAt([]byte(h.encode()), 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Lock{file: f, path: path}, nil
}

// Release removes the lock file and drops the flock. Safe on a nil or
// already released Lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

// Read parses the lock file in dir. A missing file yields fs.ErrNotExist.
func Read(dir string) (Holder, error) {
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		return Holder{}, err
	}
	return parse(string(data))
}

func (h Holder) encode() string {
	return fmt.Sprintf("pid=%d\nowner=%s\ntime=%s\n", h.PID, h.Owner, h.Acquired.Format(time.RFC3339))
}

func parse(content string) (Holder, error) {
	var h Holder
	for _, line := range strings.Split(content, "\n") {
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch k {
		case "pid":
			h.PID, _ = strconv.Atoi(v)
		case "owner":
			h.Owner = v
		case "time":
			h.Acquired, _ = time.Parse(time.RFC3339, v)
		}
	}
	if h.PID == 0 {
		return h, fmt.Errorf("malformed lock file: %w", fs.ErrInvalid)
	}
	return h, nil
}

// IsHeld reports whether err is a HeldError.
func IsHeld(err error) bool {
	var held *HeldError
	return errors.As(err, &held)
}
