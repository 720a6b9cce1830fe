package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/castarea/castarea"
	"github.com/castarea/castarea/camera"
	"github.com/castarea/castarea/camera/gstreamer"
	"github.com/castarea/castarea/camera/v4l2"
	"github.com/castarea/castarea/displayconfig"
	"github.com/castarea/castarea/filewatch"
	"github.com/castarea/castarea/preview"
	"github.com/castarea/castarea/prompt"
	"github.com/castarea/castarea/screencast"
)

var listers = map[string]camera.Lister{
	"gstreamer": gstreamer.ListDevices,
	"v4l2":      v4l2.ListDevices,
}

const (
	previewWidth     = 960
	progressInterval = 5 * time.Second
	stopTimeout      = 10 * time.Second
)

// setVerbose makes the camera backends log the commands they run.
func setVerbose(verbose bool) {
	gstreamer.Verbose = verbose
	v4l2.Verbose = verbose
}

func listWebcams(ctx context.Context, cfg config) []camera.Device {
	listFn, ok := listers[cfg.CameraBackend]
	if !ok {
		return nil
	}
	devs, err := listFn(ctx)
	if err != nil {
		log.Printf("listing webcams: %v", err)
		return nil
	}
	return devs
}

func formatCaps(caps []camera.DeviceCap) string {
	l := []string{}
	for _, c := range caps {
		if c.Type != camera.TypeJPEG {
			continue
		}
		l = append(l, fmt.Sprintf("%dx%d@%dfps", c.Width, c.Height, c.Framerate))
	}
	if len(l) == 0 {
		return ""
	}
	return fmt.Sprintf(" (jpeg caps: %s)", strings.Join(l, " "))
}

func listDevices(ctx context.Context, cfg config, out io.Writer) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return errors.Wrap(err, "connecting to session bus")
	}
	defer conn.Close()

	displays, err := displayconfig.New(conn, cfg.DisplayBusName).Displays(ctx)
	if err != nil {
		return errors.Wrap(err, "listing displays")
	}
	fmt.Fprintln(out, "Displays:")
	for _, d := range displays {
		fmt.Fprintf(out, "%s: %s\n", d.Area, d.Describe())
	}
	fmt.Fprintln(out, "Webcams:")
	for _, dev := range listWebcams(ctx, cfg) {
		fmt.Fprintf(out, "%s: %s%s\n", dev.ID, dev.Name, formatCaps(dev.Caps))
	}
	return nil
}

// webcamSource picks the capture format and placement for the overlay. The
// webcam is captured at a quarter of the display width or more, so it can be
// scaled down rather than up.
func webcamSource(dev camera.Device, area castarea.Rect) (*castarea.WebcamSource, camera.DeviceCap, error) {
	cap, ok := camera.ClosestCap(dev.Caps, area.Width/4)
	if !ok {
		return nil, camera.DeviceCap{}, errors.Errorf("webcam %s has no jpeg format at least %d pixels wide", dev.Name, area.Width/4)
	}
	return &castarea.WebcamSource{
		Device:  dev.ID,
		Caps:    cap.String(),
		Overlay: castarea.OverlayPlacement(area.Size(), cap.Size()),
	}, cap, nil
}

func record(ctx context.Context, cfg config, filename string, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Probing webcams...")
	webcams := listWebcams(ctx, cfg)

	// The shell stops the screencast when this connection goes away.
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return errors.Wrap(err, "connecting to session bus")
	}
	defer conn.Close()

	displays, err := displayconfig.New(conn, cfg.DisplayBusName).Displays(ctx)
	if err != nil {
		return errors.Wrap(err, "listing displays")
	}

	p := prompt.New(in, out)
	display, err := p.SelectDisplay(displays)
	if err != nil {
		return err
	}
	webcam, err := p.SelectWebcam(webcams)
	if err != nil {
		return err
	}

	popts := castarea.PipelineOpts{Audio: cfg.Audio}
	var wcap camera.DeviceCap
	if webcam != nil {
		popts.Webcam, wcap, err = webcamSource(*webcam, display.Area)
		if err != nil {
			return err
		}
	}
	pipeline := castarea.BuildPipeline(popts)
	fmt.Fprintf(out, "Pipeline:\n%s\n", pipeline)

	if cfg.Preview != "" {
		writePreview(ctx, cfg.Preview, display.Area, popts.Webcam, wcap)
	}

	sopts := screencast.Options{
		Pipeline:  pipeline,
		Framerate: cfg.Framerate,
	}
	if cfg.HideCursor {
		drawCursor := false
		sopts.DrawCursor = &drawCursor
	}
	sc := screencast.New(conn, cfg.ScreencastBusName)
	used, err := sc.StartArea(ctx, display.Area, filename, sopts)
	if err != nil {
		return errors.Wrap(err, "starting screencast")
	}
	fmt.Fprintf(out, "Casting screen '%s' to '%s'\n", display.Name, used)

	sigCtx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if cfg.Verbose && filepath.IsAbs(used) {
		go func() {
			err := filewatch.Watch(watchCtx, used, progressInterval, func(p filewatch.Progress) {
				log.Printf("recording %s: %d bytes", p.Path, p.Size)
			})
			if err != nil {
				log.Printf("watching recording: %v", err)
			}
		}()
	}

	timer := time.NewTimer(cfg.Duration)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-sigCtx.Done():
		log.Printf("interrupted, stopping screencast")
	}
	stopWatch()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := sc.Stop(stopCtx); err != nil {
		return errors.Wrap(err, "stopping screencast")
	}
	return nil
}

// writePreview logs failures instead of returning them, a missing preview
// should not prevent recording.
func writePreview(ctx context.Context, path string, area castarea.Rect, wc *castarea.WebcamSource, wcap camera.DeviceCap) {
	var overlay castarea.Rect
	var frame image.Image
	if wc != nil {
		overlay = wc.Overlay
		img, err := gstreamer.Snapshot(ctx, wc.Device, wcap)
		if err != nil {
			log.Printf("taking webcam snapshot for preview: %v", err)
		} else {
			frame = img
		}
	}
	img := preview.Compose(area.Size(), overlay, frame, previewWidth)
	if err := preview.Write(path, img); err != nil {
		log.Printf("%v", err)
		return
	}
	log.Printf("wrote preview to %s", path)
}
