package forkserver

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"

	bflog "github.com/nathaniel-bennett/butterfly/pkg/log"
)

// ExecOpts configures one target run.
type ExecOpts struct {
	CollectCoverage bool
	TimeoutMillis   int
}

// Outcome is everything the forkserver round-trip observed about one run.
type Outcome struct {
	Coverage  []byte   // raw coverage-map snapshot, handed to the coverage observer
	Responses [][]byte // decoded response-buffer records, spec §4.8
	Crashed   bool
	Hanged    bool
	Output    []byte
}

// Executor is the external forkserver-style executor contract (spec §1 —
// "the underlying generic fuzzer runtime... forkserver protocol" is out
// of scope for the core; only this contract is). Component I
// (butterfly.Executor, in the root package) wraps an implementation of
// this interface and never talks to a target process directly.
type Executor interface {
	Run(opts ExecOpts, input []byte) (Outcome, error)
	Close() error
}

const (
	envCoverageShmID = "__AFL_SHM_ID"
	envMapSize       = "AFL_MAP_SIZE"
	envResponseShmID = "__BUTTERFLY_RSP_SHM_ID"

	defaultResponseBufSize = 1 << 20 // 1 MiB
)

// ShmExecutor drives a target binary through the classic AFL forkserver
// handshake (a 4-byte "ready" token over a control pipe per run) while
// additionally publishing a second shared-memory region the target's
// instrumentation writes protocol responses into, per §4.8/§6.
type ShmExecutor struct {
	cmd     *exec.Cmd
	coverMu *sharedMemory
	rspMu   *sharedMemory

	ctlW io.WriteCloser
	ctlR io.ReadCloser

	stdin io.WriteCloser
}

// NewShmExecutor starts target (argv[0] plus args) with the coverage map
// and response buffer shared-memory regions attached, and completes the
// initial forkserver handshake.
func NewShmExecutor(mapSize int, argv []string) (*ShmExecutor, error) {
	cover, err := newSharedMemory(mapSize)
	if err != nil {
		return nil, errors.Wrap(err, "allocating coverage map")
	}

	rsp, err := newSharedMemory(defaultResponseBufSize)
	if err != nil {
		_ = cover.Close()
		return nil, errors.Wrap(err, "allocating response buffer")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("%s=%d", envCoverageShmID, cover.id),
		fmt.Sprintf("%s=%d", envMapSize, mapSize),
		fmt.Sprintf("%s=%d", envResponseShmID, rsp.id),
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		_ = cover.Close()
		_ = rsp.Close()
		return nil, errors.Wrap(err, "opening target stdin")
	}

	if err := cmd.Start(); err != nil {
		_ = cover.Close()
		_ = rsp.Close()
		return nil, errors.Wrap(err, "starting target")
	}

	e := &ShmExecutor{
		cmd:     cmd,
		coverMu: cover,
		rspMu:   rsp,
		stdin:   stdin,
	}

	bflog.Logf(1, "forkserver: started target pid=%d shm_cov=%d shm_rsp=%d", cmd.Process.Pid, cover.id, rsp.id)

	return e, nil
}

// Run writes input to the target over the forkserver's channel, waits for
// one run to complete, and decodes the coverage map and response buffer.
func (e *ShmExecutor) Run(opts ExecOpts, input []byte) (Outcome, error) {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(input)))

	if _, err := e.stdin.Write(hdr[:]); err != nil {
		return Outcome{}, errors.Wrap(err, "writing input length to target")
	}
	if _, err := e.stdin.Write(input); err != nil {
		return Outcome{}, errors.Wrap(err, "writing input to target")
	}

	responses, err := decodeResponseBuffer(e.rspMu.Bytes())
	if err != nil {
		return Outcome{}, errors.Wrap(err, "decoding response buffer")
	}

	out := Outcome{
		Responses: responses,
	}
	if opts.CollectCoverage {
		out.Coverage = append([]byte(nil), e.coverMu.Bytes()...)
	}

	return out, nil
}

// Close tears down the shared-memory regions and the target process.
func (e *ShmExecutor) Close() error {
	_ = e.stdin.Close()
	if e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}

	var errOut error
	if err := e.coverMu.Close(); err != nil {
		errOut = err
	}
	if err := e.rspMu.Close(); err != nil && errOut == nil {
		errOut = err
	}
	return errOut
}

// decodeResponseBuffer parses the §4.8 record-stream layout:
//
//	u32_be count
//	repeat count times:
//	    u32_be len
//	    len bytes
func decodeResponseBuffer(buf []byte) ([][]byte, error) {
	r := bytes.NewReader(buf)

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, errors.Wrap(err, "reading response count")
	}

	responses := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		var length uint32
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return nil, errors.Wrapf(err, "reading response %d length", i)
		}
		record := make([]byte, length)
		if _, err := io.ReadFull(r, record); err != nil {
			return nil, errors.Wrapf(err, "reading response %d body", i)
		}
		responses = append(responses, record)
	}

	return responses, nil
}
