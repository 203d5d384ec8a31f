// Package fuzzloop adapts syz-fuzzer/proc.go's per-process fuzzing loop —
// dequeue triage work if any is pending, otherwise generate-or-mutate and
// execute — to butterfly's packet-sequence domain. Where the original
// loop mutated a prog.Prog via a choice table and scored it against
// syscall coverage, this loop mutates a Packets[P] via a
// MutationScheduler and scores it with a StateFeedback. Fault injection,
// smash, and hint-based call mutation (syz-fuzzer's WorkSmash path) are
// out of scope, matching the distilled spec's Non-goals.
package fuzzloop

import (
	bf "github.com/nathaniel-bennett/butterfly"
	"github.com/nathaniel-bennett/butterfly/pkg/corpus"
	"github.com/nathaniel-bennett/butterfly/pkg/errs"
	"github.com/nathaniel-bennett/butterfly/pkg/log"
)

// Generator produces a brand-new seed input when the corpus is empty.
// Concrete protocol bindings (examples/opaquebytes, examples/ftp) supply
// one; it stands in for syz-fuzzer's target.Generate.
type Generator[P bf.Packet[P]] func(rnd bf.RandSource) *bf.Packets[P]

// Proc is one fuzzing worker, the Go analogue of syz-fuzzer's Proc: it
// owns a RNG, the scheduler, the executor, and the feedback it scores
// runs against, and loops generate-or-mutate/execute/save forever.
type Proc[P bf.Packet[P], PS comparable] struct {
	pid int
	rnd bf.RandSource

	scheduler *bf.MutationScheduler[P]
	executor  *bf.Executor[P, PS]
	feedback  *bf.StateFeedback[PS]
	observers *bf.Observers
	mgr       bf.EventFirer
	store     corpus.Store
	generate  Generator[P]

	parse bf.PacketParser[P]

	// regenerateEvery triggers a fresh Generator call instead of mutating
	// an existing corpus entry, mirroring syz-fuzzer's "i%100==0" cadence.
	regenerateEvery int
}

// Config bundles Proc's dependencies for construction.
type Config[P bf.Packet[P], PS comparable] struct {
	PID             int
	Rand            bf.RandSource
	Scheduler       *bf.MutationScheduler[P]
	Executor        *bf.Executor[P, PS]
	Feedback        *bf.StateFeedback[PS]
	Observers       *bf.Observers
	EventManager    bf.EventFirer
	Store           corpus.Store
	Generate        Generator[P]
	PacketParser    bf.PacketParser[P]
	RegenerateEvery int
}

// New creates a Proc from cfg, defaulting RegenerateEvery to 100 (the
// cadence syz-fuzzer's loop uses).
func New[P bf.Packet[P], PS comparable](cfg Config[P, PS]) *Proc[P, PS] {
	every := cfg.RegenerateEvery
	if every <= 0 {
		every = 100
	}
	return &Proc[P, PS]{
		pid:             cfg.PID,
		rnd:             cfg.Rand,
		scheduler:       cfg.Scheduler,
		executor:        cfg.Executor,
		feedback:        cfg.Feedback,
		observers:       cfg.Observers,
		mgr:             cfg.EventManager,
		store:           cfg.Store,
		generate:        cfg.Generate,
		parse:           cfg.PacketParser,
		regenerateEvery: every,
	}
}

// Run drives count iterations of the fuzzing loop (generate-or-mutate,
// execute, score, save-if-interesting). A count of 0 runs forever.
func (p *Proc[P, PS]) Run(count int) error {
	for i := 0; count == 0 || i < count; i++ {
		input, err := p.next(i)
		if err != nil {
			return err
		}
		if input == nil {
			continue
		}

		if err := p.executeAndSave(input); err != nil {
			return err
		}
	}
	return nil
}

func (p *Proc[P, PS]) next(i int) (*bf.Packets[P], error) {
	names := p.store.Names()

	if len(names) == 0 || i%p.regenerateEvery == 0 {
		log.Logf(1, "#%v: generated", p.pid)
		return p.generate(p.rnd), nil
	}

	name := names[p.rnd.Below(uint64(len(names)))]
	raw, err := p.store.Get(name)
	if err != nil {
		return nil, err
	}

	base, err := bf.Deserialize(raw, p.parse)
	if err != nil {
		log.Errorf("#%v: corpus entry %s: %v", p.pid, name, err)
		return nil, nil
	}

	pkts := make([]P, base.Len())
	copy(pkts, base.Packets())
	mutated := bf.NewPackets(pkts)

	if _, err := p.scheduler.Mutate(p.rnd, mutated); err != nil {
		return nil, err
	}

	log.Logf(1, "#%v: mutated", p.pid)
	return mutated, nil
}

func (p *Proc[P, PS]) executeAndSave(input *bf.Packets[P]) error {
	_, err := p.executor.Run(input)
	if err != nil {
		return err
	}

	interesting, err := p.feedback.IsInteresting(p.observers, p.mgr)
	if err != nil {
		return err
	}
	if !interesting {
		return nil
	}

	if err := p.store.Add(input.Name(), input.Serialize()); err != nil {
		return errs.ErrEngineError
	}
	log.Logf(1, "#%v: saved new input %s", p.pid, input.Name())
	return nil
}
