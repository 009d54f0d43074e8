// Package lockfile provides advisory file locks with liveness detection.
//
// A lock is a JSON file recording the holder's PID, hostname, and a
// heartbeat timestamp the holder refreshes while it works. Waiters poll
// for the file to disappear and take over locks whose holder is provably
// dead (same host, dead PID) or has stopped heartbeating. This survives
// holders that crash without releasing, which plain lock files do not.
package lockfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"
)

var (
	heartbeatInterval = 1 * time.Second
	staleAfter        = 15 * time.Second
	pollInterval      = 200 * time.Millisecond
)

type info struct {
	PID         int       `json:"pid"`
	Hostname    string    `json:"hostname"`
	AcquiredAt  time.Time `json:"acquired_at"`
	HeartbeatAt time.Time `json:"heartbeat_at"`
}

// Acquire blocks until the lock at path is held or ctx is done. It returns
// a release function that must be called on every exit path; release stops
// the heartbeat and removes the lock file.
func Acquire(ctx context.Context, path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	for {
		release, err := tryAcquire(path)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}

		if takeOverIfAbandoned(path) {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for lock %s: %w", path, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

func tryAcquire(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, err
		}
		return nil, fmt.Errorf("creating lock file %s: %w", path, err)
	}

	hostname, _ := os.Hostname()
	now := time.Now()
	inf := info{
		PID:         os.Getpid(),
		Hostname:    hostname,
		AcquiredAt:  now,
		HeartbeatAt: now,
	}
	if err := json.NewEncoder(f).Encode(inf); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("writing lock file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing lock file %s: %w", path, err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				inf.HeartbeatAt = time.Now()
				writeInfo(path, inf)
			}
		}
	}()

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			os.Remove(path)
		})
	}
	return release, nil
}

// writeInfo atomically replaces the lock file contents. Only the holder
// calls this, so the rename never clobbers a competing lock.
func writeInfo(path string, inf info) {
	data, err := json.Marshal(inf)
	if err != nil {
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".heartbeat-*")
	if err != nil {
		return
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
	}
}

// takeOverIfAbandoned removes the lock at path when its holder is dead or
// silent past the staleness threshold. The rename serializes competing
// takeovers: exactly one waiter wins it, the rest see ENOENT and re-poll.
func takeOverIfAbandoned(path string) bool {
	if !abandoned(path) {
		return false
	}
	stale := fmt.Sprintf("%s.stale-%d", path, os.Getpid())
	if err := os.Rename(path, stale); err != nil {
		return false
	}
	os.Remove(stale)
	return true
}

func abandoned(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		// Already gone, or unreadable; let the acquire loop sort it out.
		return false
	}

	var inf info
	if err := json.Unmarshal(data, &inf); err != nil || inf.HeartbeatAt.IsZero() {
		// Corrupt or half-written. Fall back to the file clock.
		fi, err := os.Stat(path)
		if err != nil {
			return false
		}
		return time.Since(fi.ModTime()) > staleAfter
	}

	if time.Since(inf.HeartbeatAt) > staleAfter {
		return true
	}

	hostname, _ := os.Hostname()
	if hostname != "" && inf.Hostname == hostname && !processAlive(inf.PID) {
		return true
	}
	return false
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	defer proc.Release()
	if runtime.GOOS == "windows" {
		// FindProcess opens a real handle on Windows and fails for dead PIDs.
		return true
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
