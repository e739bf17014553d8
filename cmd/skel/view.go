package main

import (
	"log/slog"

	"github.com/phanxgames/skel"
	"github.com/phanxgames/skel/ebitenview"
	"github.com/phanxgames/skel/internal/logging"
	"github.com/phanxgames/skel/rig"
	"github.com/phanxgames/skel/scene"
	"github.com/spf13/cobra"
)

type viewOptions struct {
	config ebitenview.Config
	loop   bool
	level  slog.Level
}

var viewCmd = &cobra.Command{
	Use:   "view <rig.yaml>",
	Short: "Preview a rig in a window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		scale, _ := cmd.Flags().GetFloat64("scale")
		swing, _ := cmd.Flags().GetFloat64("swing")
		loop, _ := cmd.Flags().GetBool("loop")

		v, _, err := buildView(args[0], viewOptions{
			config: ebitenview.Config{
				Width:  width,
				Height: height,
				Scale:  scale,
				Swing:  swing,
			},
			loop:  loop,
			level: level,
		})
		if err != nil {
			return err
		}
		return ebitenview.Run(v)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().Int("width", 960, "Window width in pixels")
	viewCmd.Flags().Int("height", 720, "Window height in pixels")
	viewCmd.Flags().Float64("scale", 40, "Pixels per world unit")
	viewCmd.Flags().Float64("swing", 30, "Camera yaw swing in degrees (0 holds the camera still)")
	viewCmd.Flags().Bool("loop", false, "Replay the animation each time it finishes")
}

// buildView loads the rig and starts it on a new viewer without opening a
// window.
func buildView(path string, opts viewOptions) (*ebitenview.Viewer, *scene.Stage, error) {
	f, err := rig.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	stage := scene.NewStage()
	stage.SetDebugMode(opts.level <= slog.LevelDebug)

	cfg := opts.config
	cfg.Title = f.Name
	v := ebitenview.New(stage, cfg)
	logger := logging.New(opts.level)
	build := func() (*skel.Skeleton, error) {
		sk, _, err := f.Build(stage, v, skel.WithLogger(logger))
		return sk, err
	}

	if opts.loop {
		if err := v.Loop(build); err != nil {
			return nil, nil, err
		}
		return v, stage, nil
	}
	sk, err := build()
	if err != nil {
		return nil, nil, err
	}
	v.Watch(sk)
	if err := sk.Animate(0); err != nil {
		return nil, nil, err
	}
	return v, stage, nil
}
