// Command relaysim serves the relay channel API and a fake camera for
// running the console without the robot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/waterbot/internal/buildinfo"
	"github.com/dmitrijs2005/waterbot/internal/logging"
	"github.com/dmitrijs2005/waterbot/internal/relaysim"
)

func newRootCmd() *cobra.Command {
	var (
		addr     string
		opts     relaysim.Options
		logLevel string
	)

	root := &cobra.Command{
		Use:          "relaysim",
		Short:        "Relay channel API and camera simulator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = logging.NewTextLogger(cmd.ErrOrStderr(), logging.ParseLevel(logLevel))
			sim := relaysim.New(opts)
			fmt.Fprintf(cmd.OutOrStdout(), "relay: http://%s/channel/{get,set}/%s/%s/...\n", addr, opts.Key, thingOrDefault(opts.Thing))
			return sim.ListenAndServe(cmd.Context(), addr)
		},
	}

	f := root.Flags()
	f.StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	f.StringVar(&opts.Key, "key", "dev", "relay API key")
	f.StringVar(&opts.Thing, "thing", "WaterRobot", "thing name")
	f.IntVar(&opts.Frames, "frames", 0, "frames per stream response (0 = endless)")
	f.DurationVar(&opts.FrameInterval, "interval", 100*time.Millisecond, "delay between stream frames")
	f.IntVar(&opts.Width, "width", 160, "frame width")
	f.IntVar(&opts.Height, "height", 120, "frame height")
	f.BoolVar(&opts.NumericValues, "numeric", false, "return channel values as JSON numbers")
	f.StringVar(&logLevel, "log-level", "info", "log level")

	root.AddCommand(newVersionCmd())
	return root
}

func thingOrDefault(thing string) string {
	if thing == "" {
		return "WaterRobot"
	}
	return thing
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build info",
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
