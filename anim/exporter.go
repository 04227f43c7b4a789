// Package anim drives the frame loop: for every minute of flight it
// computes the sub-solar point, builds the blended globe map, renders
// the orthographic frame and finally assembles the frames into a video.
package anim

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/flightglobe/earth"
	"github.com/echoflaresat/flightglobe/flight"
	"github.com/echoflaresat/flightglobe/render"
	"github.com/echoflaresat/flightglobe/terminator"
)

// Exporter renders a planned flight into numbered PNG frames and an
// mp4. The plan and builder are read-only here, so frames render
// concurrently; each frame owns its buffers.
type Exporter struct {
	Plan    *flight.Plan
	Builder *terminator.Builder
	Opts    render.Options
	FPS     int
	Workers int
	Logger  *slog.Logger
}

// FrameName returns the file name of frame i within the frames
// directory.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%05d.png", i)
}

// RenderFrames renders every frame of the plan into dir, creating it if
// needed. It stops at the first failure and reports which frame and
// instant caused it, so a long batch dies fast instead of producing a
// broken video.
func (e *Exporter) RenderFrames(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	logger := e.logger()
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	n := e.Plan.FrameCount()
	path := e.Plan.Path()
	camPath := e.Plan.CameraPath()
	start := time.Now()
	logger.Info("rendering frames", "count", n, "workers", workers, "dir", dir)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			at := e.Plan.Instant(i)
			sub, err := earth.SubsolarPoint(at)
			if err != nil {
				return fmt.Errorf("frame %d (%s): %w", i, at, err)
			}
			m, err := e.Builder.Map(sub)
			if err != nil {
				return fmt.Errorf("frame %d (%s): %w", i, at, err)
			}
			cam := render.NewCamera(camPath[i])
			img := render.Frame(m, cam, path, i, e.Opts)

			f, err := os.Create(filepath.Join(dir, FrameName(i)))
			if err != nil {
				return fmt.Errorf("frame %d (%s): %w", i, at, err)
			}
			enc := png.Encoder{CompressionLevel: png.BestSpeed}
			if err := enc.Encode(f, img); err != nil {
				f.Close()
				return fmt.Errorf("frame %d (%s): %w", i, at, err)
			}
			return f.Close()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("frames rendered", "count", n, "elapsed", time.Since(start).Round(time.Second))
	return nil
}

// Export renders all frames into framesDir and encodes them into an
// H.264 mp4 at outPath.
func (e *Exporter) Export(ctx context.Context, framesDir, outPath string) error {
	if err := e.RenderFrames(ctx, framesDir); err != nil {
		return err
	}

	fps := e.FPS
	if fps <= 0 {
		fps = 24
	}
	e.logger().Info("encoding video", "out", outPath, "fps", fps)

	err := ffmpeg.Input(filepath.Join(framesDir, "frame_%05d.png"), ffmpeg.KwArgs{"framerate": fps}).
		Output(outPath, ffmpeg.KwArgs{
			"c:v":      "libx264",
			"pix_fmt":  "yuv420p",
			"movflags": "+faststart",
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("encode %s: %w", outPath, err)
	}
	return nil
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
