package butterfly

// Mutator is one sequence- or packet-level mutator (components F/G). Name
// identifies it for logging; Mutate attempts the mutation in place.
type Mutator[P Packet[P]] interface {
	Name() string
	Mutate(rnd RandSource, input *Packets[P]) (MutationResult, error)
}

// MutationScheduler wraps a fixed tuple of sub-mutators and runs exactly
// one of them per call (component H): it samples an index uniformly,
// invokes that sub-mutator, and retries on Skipped until one reports
// Mutated. It never falls through to try a different sub-mutator after a
// Mutated result — stacking, if any, is each sub-mutator's own business
// (the bundled Havoc mutator does not stack: it applies exactly one
// byte-level mutation per call).
type MutationScheduler[P Packet[P]] struct {
	mutators []Mutator[P]
}

// NewMutationScheduler builds a scheduler over the given sub-mutators.
// At least one must be supplied.
func NewMutationScheduler[P Packet[P]](mutators ...Mutator[P]) *MutationScheduler[P] {
	if len(mutators) == 0 {
		panic("butterfly: MutationScheduler requires at least one mutator")
	}
	return &MutationScheduler[P]{mutators: mutators}
}

func (s *MutationScheduler[P]) Name() string {
	return "PacketMutationScheduler"
}

// Mutate samples a sub-mutator uniformly and invokes it, retrying on
// Skipped, until one call returns Mutated or returns an error.
func (s *MutationScheduler[P]) Mutate(rnd RandSource, input *Packets[P]) (MutationResult, error) {
	for {
		idx := int(rnd.Below(uint64(len(s.mutators))))
		result, err := s.mutators[idx].Mutate(rnd, input)
		if err != nil {
			return Skipped, err
		}
		if result == Mutated {
			return Mutated, nil
		}
	}
}
