// Package forkserver implements the AFL-compatible forkserver target ABI
// described in spec §6: the target attaches to a coverage-map shared
// memory region (id in __AFL_SHM_ID, size in AFL_MAP_SIZE) and, for this
// core, a second response-buffer region carrying the record stream §4.8
// specifies. This is the "external forkserver-style executor" the spec
// places out of scope for the core proper (§1) — butterfly's Executor
// (see executor.go in the root package) wraps an implementation of the
// Executor interface defined here.
package forkserver

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// sharedMemory is a SysV shared-memory segment, grounded in the same
// shmget/shmat/shmctl triple every AFL-style forkserver client uses to
// publish its coverage map, implemented here over golang.org/x/sys/unix
// rather than cgo.
type sharedMemory struct {
	id   int
	addr []byte
}

func newSharedMemory(size int) (*sharedMemory, error) {
	id, err := unix.SysvShmGet(unix.IPC_PRIVATE, size, 0o600|unix.IPC_CREAT)
	if err != nil {
		return nil, errors.Wrap(err, "shmget")
	}

	addr, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		_ = removeShmID(id)
		return nil, errors.Wrap(err, "shmat")
	}

	return &sharedMemory{id: id, addr: addr}, nil
}

func (s *sharedMemory) Bytes() []byte {
	return s.addr
}

func (s *sharedMemory) Close() error {
	if err := unix.SysvShmDetach(s.addr); err != nil {
		return errors.Wrap(err, "shmdt")
	}
	if err := removeShmID(s.id); err != nil {
		return errors.Wrap(err, "shmctl(IPC_RMID)")
	}
	return nil
}

// removeShmID marks the segment for destruction once the last attached
// process detaches, via the raw shmctl syscall (golang.org/x/sys/unix has
// no typed IPC_RMID wrapper).
func removeShmID(id int) error {
	_, _, errno := unix.Syscall(unix.SYS_SHMCTL, uintptr(id), uintptr(unix.IPC_RMID), 0)
	if errno != 0 {
		return errno
	}
	return nil
}
