package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/muxbench/capacity"
	"github.com/sarchlab/muxbench/monitoring"
	"github.com/sarchlab/muxbench/scenario"
	"github.com/sarchlab/muxbench/sim"
	"github.com/sarchlab/muxbench/trace"
)

var (
	scenarioName string
	numChannels  int
	numTrans     int
	seed         int64
	maxCycles    uint64

	sinkCapacity     int
	drainedThreshold int
	drainEvery       int

	tracePath   string
	monitorOn   bool
	monitorPort int
	verbose     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one verification scenario and print its summary",
	RunE:  runScenario,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&scenarioName, "scenario", "s", "basic",
		"scenario to run: basic, burst, or saturation")
	runCmd.Flags().IntVarP(&numChannels, "channels", "c", 3,
		"number of independent channels")
	runCmd.Flags().IntVarP(&numTrans, "ntrans", "n", 10,
		"transactions per channel, ignored by the saturation scenario")
	runCmd.Flags().Int64Var(&seed, "seed", 0,
		"randomization seed")
	runCmd.Flags().Uint64Var(&maxCycles, "max-cycles", 10_000_000,
		"abort the run after this many cycles, 0 disables the bound")

	runCmd.Flags().IntVar(&sinkCapacity, "capacity", 0x20,
		"buffering capacity of each consumer channel, in words")
	runCmd.Flags().IntVar(&drainedThreshold, "drained", 0,
		"margin at which a channel counts as drained, 0 means the full capacity")
	runCmd.Flags().IntVar(&drainEvery, "drain-every", 2,
		"cycles between two consumed words, 0 disables consumption")

	runCmd.Flags().StringVar(&tracePath, "trace", "",
		"record a trace database at this path")
	runCmd.Flags().BoolVar(&monitorOn, "monitor", false,
		"serve the monitoring API while the scenario runs")
	runCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"port of the monitoring server, 0 picks a random port")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"print a trace line at every scenario phase transition")
}

func runScenario(_ *cobra.Command, _ []string) error {
	kind, err := scenario.ParseKind(scenarioName)
	if err != nil {
		return err
	}

	engine := sim.NewSerialEngine()

	sinks := make([]*capacity.Sink, numChannels)
	oracles := make([]capacity.Oracle, numChannels)

	for i := range sinks {
		sinks[i] = capacity.MakeSinkBuilder().
			WithEngine(engine).
			WithCapacity(sinkCapacity).
			WithDrainedThreshold(drainedThreshold).
			WithDrainEvery(drainEvery).
			Build(fmt.Sprintf("Sink%d", i))
		oracles[i] = sinks[i]
	}

	s, err := scenario.MakeBuilder().
		WithEngine(engine).
		WithConfig(scenario.Config{
			Kind:            kind,
			Channels:        numChannels,
			TransPerChannel: numTrans,
			Seed:            seed,
			MaxCycles:       maxCycles,
		}).
		WithOracles(oracles...).
		Build(scenarioName)
	if err != nil {
		return err
	}

	if verbose {
		s.AcceptHook(scenario.NewLogger(
			log.New(os.Stderr, "", log.Ltime)))
	}

	if tracePath != "" {
		recorder := trace.NewRecorder(tracePath)
		tracer := trace.NewScenarioTracer(recorder, engine)
		tracer.CollectScenario(s)
	}

	if monitorOn {
		startMonitor(engine, s, sinks)
	}

	summary, err := s.Run()
	if summary != nil {
		fmt.Print(summary)
	}

	if err != nil {
		return err
	}

	if !summary.AllPassed() {
		return fmt.Errorf("%d transactions failed verification",
			summary.TotalFail())
	}

	return nil
}

func startMonitor(
	engine sim.Engine,
	s *scenario.Scenario,
	sinks []*capacity.Sink,
) {
	if monitorPort == 0 {
		monitorPort = envInt("MUXBENCH_MONITOR_PORT", 0)
	}

	m := monitoring.NewMonitor().WithPortNumber(monitorPort)
	m.RegisterEngine(engine)
	m.RegisterScenario(s)

	for i, sink := range sinks {
		m.RegisterChannel(fmt.Sprintf("Channel%d", i), sink)
	}

	m.StartServer()
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}
