package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phanxgames/skel"
	"github.com/phanxgames/skel/clock"
	"github.com/phanxgames/skel/internal/logging"
	"github.com/phanxgames/skel/metrics"
	"github.com/phanxgames/skel/rig"
	"github.com/phanxgames/skel/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// maxManualTicks bounds a fast-forward run.
const maxManualTicks = 10_000_000

type runOptions struct {
	realtime    bool
	metricsAddr string
	logger      *slog.Logger
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <rig.yaml>",
	Short: "Run a rig headless and print the final pose of every bone",
	Long: `Builds the rig on an in-memory stage and animates it to completion. By default
the clock is fast-forwarded; --realtime ticks against the wall clock.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}
		realtime, _ := cmd.Flags().GetBool("realtime")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runRig(ctx, cmd.OutOrStdout(), args[0], runOptions{
			realtime:    realtime,
			metricsAddr: metricsAddr,
			logger:      logging.New(level),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("realtime", false, "Tick against the wall clock instead of fast-forwarding")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running (e.g. :2112)")
}

func runRig(ctx context.Context, out io.Writer, path string, opts runOptions) error {
	logger := opts.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	f, err := rig.LoadFile(path)
	if err != nil {
		return err
	}

	var sink skel.EventSink
	if opts.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		sink = metrics.New(reg)
		stop, err := serveMetrics(opts.metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	var (
		sched    skel.Scheduler
		manual   *clock.Manual
		realtime *clock.Realtime
	)
	if opts.realtime {
		realtime = clock.NewRealtime(ctx)
		sched = realtime
	} else {
		manual = clock.NewManual()
		sched = manual
	}

	stage := scene.NewStage()
	sk, _, err := f.Build(stage, sched, skel.WithLogger(logger), skel.WithEventSink(sink))
	if err != nil {
		return err
	}
	if err := sk.Animate(0); err != nil {
		return err
	}

	if manual != nil {
		manual.RunUntilIdle(maxManualTicks)
	} else {
		select {
		case <-sk.Done():
		case <-ctx.Done():
			realtime.Wait()
			return ctx.Err()
		}
		realtime.Wait()
	}
	if err := sk.Err(); err != nil {
		return err
	}

	stage.Update()
	printPoses(out, sk)
	return nil
}

// printPoses writes one line per bone: the world position of its origin and
// its joint.
func printPoses(out io.Writer, sk *skel.Skeleton) {
	fmt.Fprintf(out, "%s: %d ticks, clock %.2fs\n", sk.Name(), sk.Ticks(), sk.Clock())
	sk.Root().Walk(func(b *skel.Bone) bool {
		origin := skel.TranslationOf(b.Pose())
		j := b.Joint()
		fmt.Fprintf(out, "  %-12s origin=(%.3f, %.3f, %.3f) joint=(%.3f, %.3f, %.3f)\n",
			b.Name, origin[0], origin[1], origin[2], j[0], j[1], j[2])
		return true
	})
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
