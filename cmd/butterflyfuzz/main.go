// Command butterflyfuzz is the reference fuzzer client that exercises the
// butterfly core against the bundled example protocol bindings. It owns
// everything spec §1 places outside the core: corpus storage, the RNG
// source, the forkserver connection, and the event manager/monitor.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	bf "github.com/nathaniel-bennett/butterfly"
	"github.com/nathaniel-bennett/butterfly/examples/ftp"
	"github.com/nathaniel-bennett/butterfly/examples/opaquebytes"
	"github.com/nathaniel-bennett/butterfly/mutators"
	"github.com/nathaniel-bennett/butterfly/pkg/corpus"
	"github.com/nathaniel-bennett/butterfly/pkg/forkserver"
	"github.com/nathaniel-bennett/butterfly/pkg/fuzzloop"
	"github.com/nathaniel-bennett/butterfly/pkg/havoc"
	"github.com/nathaniel-bennett/butterfly/pkg/log"
	bfrand "github.com/nathaniel-bennett/butterfly/pkg/rand"
)

var rootCmd = &cobra.Command{
	Use:   "butterflyfuzz -- target [target-args...]",
	Short: "Stateful, packet-aware coverage-guided fuzzer client",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		cfg.Target = args
		return run(cfg)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.Int("map-size", 1<<16, "coverage map size in bytes")
	flags.Int("min-packets", 1, "minimum packet count enforced by delete/splice")
	flags.Int("max-packets", 32, "maximum packet count enforced by duplicate")
	flags.String("observer-name", "state", "name the state observer registers under")
	flags.String("graphviz-path", "", "file to periodically overwrite with the observed state graph's DOT text (empty disables)")
	flags.Int("graphviz-interval", 30, "seconds between graphviz dumps")
	flags.String("protocol", "opaquebytes", "example protocol binding to fuzz with: ftp or opaquebytes")
	flags.Int("regenerate-every", 100, "generate a fresh seed instead of mutating the corpus every N iterations")
	flags.String("metrics-addr", "", "address to serve Prometheus metrics on (empty disables)")

	for _, name := range []string{
		"map-size", "min-packets", "max-packets", "observer-name",
		"graphviz-path", "graphviz-interval", "protocol", "regenerate-every",
		"metrics-addr",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BUTTERFLYFUZZ")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	clientID := uuid.NewString()
	log.Logf(0, "butterflyfuzz: starting client %s protocol=%s target=%v", clientID, cfg.Protocol, cfg.Target)

	registry := prometheus.NewRegistry()
	monitor := bf.NewStateMonitor()
	for _, c := range monitor.Collectors() {
		if err := registry.Register(c); err != nil {
			return err
		}
	}

	var firer bf.EventFirer = monitor
	if cfg.GraphvizPath != "" {
		interval := time.Duration(cfg.GraphvizInterval) * time.Second
		firer = bf.NewFanoutFirer(monitor, bf.NewGraphvizMonitor(cfg.GraphvizPath, interval))
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Errorf("metrics server: %v", err)
			}
		}()
	}

	fs, err := forkserver.NewShmExecutor(cfg.MapSize, cfg.Target)
	if err != nil {
		return err
	}
	defer fs.Close()

	switch cfg.Protocol {
	case "ftp":
		return runFTP(cfg, fs, firer, clientID)
	case "opaquebytes":
		return runOpaqueBytes(cfg, fs, firer, clientID)
	default:
		return fmt.Errorf("unknown protocol %q", cfg.Protocol)
	}
}

func runFTP(cfg Config, fs forkserver.Executor, firer bf.EventFirer, clientID string) error {
	observers := bf.NewObservers()
	observer := bf.NewStateObserver[int](cfg.ObserverName)
	observers.Register(cfg.ObserverName, observer)

	executor := bf.NewExecutor[*ftp.Packet, int](fs, observer, ftp.ParseResponse, nil, cfg.MapSize)
	feedback := bf.NewStateFeedback[int](observer, clientID)
	scheduler := newScheduler[*ftp.Packet](cfg)
	store := corpus.NewMemory()
	rnd := bfrand.New()

	seed := ftp.Generate(rnd)
	if err := store.Add(seed.Name(), seed.Serialize()); err != nil {
		return err
	}

	proc := fuzzloop.New(fuzzloop.Config[*ftp.Packet, int]{
		PID:             os.Getpid(),
		Rand:            rnd,
		Scheduler:       scheduler,
		Executor:        executor,
		Feedback:        feedback,
		Observers:       observers,
		EventManager:    firer,
		Store:           store,
		Generate:        ftp.Generate,
		PacketParser:    ftp.ParsePacket,
		RegenerateEvery: cfg.RegenerateEvery,
	})

	return proc.Run(0)
}

func runOpaqueBytes(cfg Config, fs forkserver.Executor, firer bf.EventFirer, clientID string) error {
	observers := bf.NewObservers()
	observer := bf.NewStateObserver[int](cfg.ObserverName)
	observers.Register(cfg.ObserverName, observer)

	responseParser := func(record []byte) (int, bool, error) {
		if len(record) == 0 {
			return 0, false, nil
		}
		return int(record[0]), true, nil
	}

	executor := bf.NewExecutor[*opaquebytes.Packet, int](fs, observer, responseParser, nil, cfg.MapSize)
	feedback := bf.NewStateFeedback[int](observer, clientID)
	scheduler := newScheduler[*opaquebytes.Packet](cfg)
	store := corpus.NewMemory()
	rnd := bfrand.New()

	generate := func(rnd bf.RandSource) *bf.Packets[*opaquebytes.Packet] {
		return opaquebytes.Generate(rnd, 16)
	}

	seed := generate(rnd)
	if err := store.Add(seed.Name(), seed.Serialize()); err != nil {
		return err
	}

	proc := fuzzloop.New(fuzzloop.Config[*opaquebytes.Packet, int]{
		PID:             os.Getpid(),
		Rand:            rnd,
		Scheduler:       scheduler,
		Executor:        executor,
		Feedback:        feedback,
		Observers:       observers,
		EventManager:    firer,
		Store:           store,
		Generate:        generate,
		PacketParser:    opaquebytes.ParsePacket,
		RegenerateEvery: cfg.RegenerateEvery,
	})

	return proc.Run(0)
}

func newScheduler[P bf.Packet[P]](cfg Config) *bf.MutationScheduler[P] {
	return bf.NewMutationScheduler[P](
		mutators.NewReorder[P](),
		mutators.NewDelete[P](cfg.MinPackets),
		mutators.NewDuplicate[P](cfg.MaxPackets),
		mutators.NewCrossoverInsert[P](),
		mutators.NewCrossoverReplace[P](),
		mutators.NewSplice[P](cfg.MinPackets),
		mutators.NewHavoc[P](havoc.Default()),
	)
}
