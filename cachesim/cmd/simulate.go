package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/trace"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/report"
)

type simulation struct {
	config    cache.Config
	format    report.Format
	traceFile string

	recordName     string
	recordAccesses bool
	traceLog       bool
	monitor        bool
	monitorPort    int
	openBrowser    bool
}

func parseSimulation(cmd *cobra.Command, args []string) (simulation, error) {
	var (
		s   simulation
		err error
	)

	s.config.NumSets, err = parseInt("nsets", args[0])
	if err != nil {
		return s, err
	}

	s.config.BlockSize, err = parseInt("bsize", args[1])
	if err != nil {
		return s, err
	}

	s.config.Associativity, err = parseInt("assoc", args[2])
	if err != nil {
		return s, err
	}

	s.config.Policy, err = cache.ParsePolicy(args[3])
	if err != nil {
		return s, err
	}

	s.format, err = report.ParseFormat(args[4])
	if err != nil {
		return s, err
	}

	s.traceFile = args[5]

	s.config.Seed, err = resolveSeed(cmd)
	if err != nil {
		return s, err
	}

	err = s.config.Validate()
	if err != nil {
		return s, err
	}

	flags := cmd.Flags()
	s.recordName, _ = flags.GetString("record")
	if !flags.Changed("record") {
		s.recordName = os.Getenv(EnvRecord)
	}

	s.recordAccesses, _ = flags.GetBool("record-accesses")
	s.traceLog, _ = flags.GetBool("trace-log")
	s.monitor, _ = flags.GetBool("monitor")
	s.monitorPort, _ = flags.GetInt("monitor-port")
	s.openBrowser, _ = flags.GetBool("open-browser")

	if s.recordAccesses && s.recordName == "" {
		return s, errors.New("--record-accesses requires --record")
	}

	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	s, err := parseSimulation(cmd, args)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stats, err := s.run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if s.format == report.Verbose {
		err = report.WriteParameters(out, s.config, s.traceFile)
		if err != nil {
			return err
		}
	}

	return report.Write(out, s.format, stats)
}

func (s simulation) run(ctx context.Context) (cache.Statistics, error) {
	model, err := cache.MakeBuilder().WithConfig(s.config).Build()
	if err != nil {
		return cache.Statistics{}, err
	}

	reader, err := trace.OpenFile(s.traceFile)
	if err != nil {
		return cache.Statistics{}, err
	}
	defer reader.Close()

	runner := trace.NewRunner(model, reader)

	if s.traceLog {
		runner.AcceptHook(trace.NewLogTracer(log.New(os.Stderr, "", 0)))
	}

	if s.recordName != "" {
		recorder, err := datarecording.New(s.recordName)
		if err != nil {
			return cache.Statistics{}, err
		}
		defer recorder.Close()

		runner.AcceptHook(trace.NewDBRecorder(
			recorder, s.config, s.traceFile, s.recordAccesses))
	}

	if s.monitor {
		monitor, err := s.startMonitor(model, reader.NumRecords())
		if err != nil {
			return cache.Statistics{}, err
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(), time.Second)
			defer cancel()

			_ = monitor.StopServer(shutdownCtx)
		}()

		runner.AcceptHook(monitor)
	}

	return runner.Run(ctx)
}

func (s simulation) startMonitor(
	model *cache.Model,
	numRecords uint64,
) (*monitoring.Monitor, error) {
	monitor := monitoring.NewMonitor().WithPortNumber(s.monitorPort)
	monitor.RegisterModel(model, numRecords)

	url, err := monitor.StartServer()
	if err != nil {
		return nil, err
	}

	if s.openBrowser {
		err = browser.OpenURL(url)
		if err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	return monitor, nil
}
