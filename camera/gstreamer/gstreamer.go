// Package gstreamer lists cameras and takes snapshots with the gstreamer tools.
package gstreamer

import (
	"bufio"
	"context"
	"image"
	"image/jpeg"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/castarea/castarea"
	"github.com/castarea/castarea/camera"
)

var errInstallHint = errors.New("executable not found, install with: sudo apt install -y gstreamer1.0-tools gstreamer1.0-plugins-good gstreamer1.0-plugins-base gstreamer1.0-plugins-base-apps")

// Verbose enables logging of the commands that are run.
var Verbose bool

// Check that ListDevices is a camera.Lister.
var _ camera.Lister = ListDevices

type device struct {
	ID          string
	Name        string
	DeviceClass string
	RawCaps     []string
	inCapMode   bool
}

var widthRegexp = regexp.MustCompile(`width=(?:\(int\))?([0-9]+)[^0-9]`)
var heightRegexp = regexp.MustCompile(`height=(?:\(int\))?([0-9]+)[^0-9]`)

// Framerate is either a single fraction or a list, highest first.
var framerateRegexp = regexp.MustCompile(`framerate=(?:\(fraction\))?(?:\{\s*)?(?:\(fraction\))?([0-9]+)/([0-9]+)`)

// ListDevices returns the video sources that gst-device-monitor-1.0 reports.
func ListDevices(ctx context.Context) ([]camera.Device, error) {
	cmd := exec.CommandContext(ctx, "gst-device-monitor-1.0", "Video/Source")
	if Verbose {
		log.Printf("listing devices with %s", strings.Join(cmd.Args, " "))
	}
	buf, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			err = errInstallHint
		}
		return nil, errors.Wrap(err, "listing devices using gst-device-monitor-1.0")
	}
	return parseDevices(string(buf))
}

func parseDevices(s string) ([]camera.Device, error) {
	var r []device
	var d *device
	b := bufio.NewScanner(strings.NewReader(s))
	for b.Scan() {
		s := strings.TrimSpace(b.Text())
		if s == "" {
			continue
		}
		if s == "Device found:" {
			if d != nil {
				r = append(r, *d)
			}
			d = &device{RawCaps: []string{}}
			continue
		}

		if d == nil {
			continue
		}

		if strings.HasPrefix(s, "name  :") {
			d.Name = strings.TrimSpace(strings.SplitN(s, ":", 2)[1])
			continue
		}
		if strings.HasPrefix(s, "class :") {
			d.DeviceClass = strings.TrimSpace(strings.SplitN(s, ":", 2)[1])
			continue
		}
		if strings.HasPrefix(s, "caps  :") {
			cap := strings.TrimSpace(strings.SplitN(s, ":", 2)[1])
			d.RawCaps = append(d.RawCaps, cap)
			d.inCapMode = true
			continue
		}
		if strings.HasPrefix(s, "properties:") || strings.HasPrefix(s, "gst-launch-1.0") {
			d.inCapMode = false
			continue
		}
		if d.inCapMode {
			d.RawCaps = append(d.RawCaps, s)
			continue
		}
		if strings.HasPrefix(s, "device.path =") {
			d.ID = strings.TrimSpace(strings.SplitN(s, "=", 2)[1])
		}
		// Devices from the pipewire provider only carry the v4l2 path.
		if strings.HasPrefix(s, "api.v4l2.path =") && d.ID == "" {
			d.ID = strings.TrimSpace(strings.SplitN(s, "=", 2)[1])
		}
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	if d != nil {
		r = append(r, *d)
	}

	devs := []camera.Device{}
	for _, d := range r {
		if d.DeviceClass != "Video/Source" || d.ID == "" {
			continue
		}
		caps := []camera.DeviceCap{}
		seen := map[camera.DeviceCap]bool{}
		for _, rc := range d.RawCaps {
			c, ok := parseCap(rc)
			if !ok || seen[c] {
				continue
			}
			seen[c] = true
			caps = append(caps, c)
		}
		if len(caps) == 0 {
			continue
		}
		devs = append(devs, camera.Device{
			ID:   d.ID,
			Name: d.Name,
			Caps: caps,
		})
	}
	return devs, nil
}

func parseCap(rc string) (camera.DeviceCap, bool) {
	var typ string
	switch {
	case strings.HasPrefix(rc, camera.TypeRaw):
		typ = camera.TypeRaw
	case strings.HasPrefix(rc, camera.TypeJPEG):
		typ = camera.TypeJPEG
	default:
		return camera.DeviceCap{}, false
	}
	// Terminate so the regexps can require a non-digit after the value.
	rc += ","
	mw := widthRegexp.FindStringSubmatch(rc)
	mh := heightRegexp.FindStringSubmatch(rc)
	if mw == nil || mh == nil {
		return camera.DeviceCap{}, false
	}
	width, werr := strconv.ParseInt(mw[1], 10, 32)
	height, herr := strconv.ParseInt(mh[1], 10, 32)
	if werr != nil || herr != nil || width == 0 || height == 0 {
		return camera.DeviceCap{}, false
	}
	c := camera.DeviceCap{Type: typ, Width: int(width), Height: int(height)}
	if mf := framerateRegexp.FindStringSubmatch(rc); mf != nil {
		num, nerr := strconv.ParseInt(mf[1], 10, 32)
		den, derr := strconv.ParseInt(mf[2], 10, 32)
		if nerr == nil && derr == nil && den > 0 {
			c.Framerate = int(num / den)
		}
	}
	return c, true
}

// snapshotArgs returns the gst-launch-1.0 arguments to write one frame to
// path. gst-launch joins its arguments into one description, so values are
// quoted.
func snapshotArgs(device string, cap camera.DeviceCap, path string) []string {
	return []string{
		"-q",
		"v4l2src",
		"device=" + castarea.QuoteValue(device),
		"num-buffers=1",
		"!",
		cap.String(),
		"!",
		"jpegparse",
		"!",
		"filesink",
		"location=" + castarea.QuoteValue(path),
	}
}

// Snapshot records a single frame from device with the given cap, which must
// be an image/jpeg cap.
func Snapshot(ctx context.Context, device string, cap camera.DeviceCap) (image.Image, error) {
	dir, err := castarea.TempDir()
	if err != nil {
		return nil, errors.Wrap(err, "making temp dir")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.jpg")
	args := snapshotArgs(device, cap, path)
	if Verbose {
		log.Printf("taking snapshot with gst-launch-1.0 %s", strings.Join(args, " "))
	}
	cmd := exec.CommandContext(ctx, "gst-launch-1.0", args...)
	cmd.Dir = dir
	if Verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			err = errInstallHint
		}
		return nil, errors.Wrap(err, "running gst-launch-1.0")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot")
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "decoding snapshot")
	}
	return img, nil
}
