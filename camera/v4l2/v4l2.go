// Package v4l2 lists cameras with v4l2-ctl, for systems without the gstreamer
// device monitor.
package v4l2

import (
	"bufio"
	"context"
	"log"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/castarea/castarea/camera"
)

var errInstallHint = errors.New("executable not found, install with: sudo apt install -y v4l-utils")

// Verbose enables logging of the commands that are run.
var Verbose bool

// Check that ListDevices is a camera.Lister.
var _ camera.Lister = ListDevices

type node struct {
	Name string
	Path string
}

// ListDevices returns the video nodes that offer Motion-JPEG capture.
func ListDevices(ctx context.Context) ([]camera.Device, error) {
	buf, err := v4l2ctl(ctx, "--list-devices")
	if err != nil {
		return nil, errors.Wrap(err, "listing devices using v4l2-ctl")
	}
	devices := []camera.Device{}
	for _, n := range parseListDevices(string(buf)) {
		buf, err := v4l2ctl(ctx, "-d", n.Path, "--list-formats-ext")
		if err != nil {
			// Metadata nodes and busy devices fail here, skip them.
			if Verbose {
				log.Printf("listing formats of %s: %v", n.Path, err)
			}
			continue
		}
		caps := parseFormats(string(buf))
		if len(caps) == 0 {
			continue
		}
		devices = append(devices, camera.Device{
			Name: n.Name,
			ID:   n.Path,
			Caps: caps,
		})
	}
	return devices, nil
}

func v4l2ctl(ctx context.Context, args ...string) ([]byte, error) {
	if Verbose {
		log.Printf("running v4l2-ctl %s", strings.Join(args, " "))
	}
	buf, err := exec.CommandContext(ctx, "v4l2-ctl", args...).Output()
	if err != nil && errors.Is(err, exec.ErrNotFound) {
		err = errInstallHint
	}
	return buf, err
}

// parseListDevices parses the output of "v4l2-ctl --list-devices": a line
// naming the hardware, followed by tab-indented device nodes.
func parseListDevices(s string) []node {
	var curDevice string
	nodes := []node{}
	for _, line := range strings.Split(s, "\n") {
		if !strings.HasPrefix(line, "\t") {
			curDevice = strings.TrimSuffix(strings.TrimSpace(line), ":")
			continue
		}
		if curDevice == "" || strings.HasPrefix(curDevice, "bcm2835-") {
			continue
		}
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "/dev/video") {
			continue
		}
		nodes = append(nodes, node{
			Name: curDevice,
			Path: line,
		})
	}
	return nodes
}

var formatRegexp = regexp.MustCompile(`^\[[0-9]+\]: '([^']+)'`)
var sizeRegexp = regexp.MustCompile(`^Size: Discrete ([0-9]+)x([0-9]+)`)
var intervalRegexp = regexp.MustCompile(`^Interval: Discrete [0-9.]+s \(([0-9.]+) fps\)`)

// parseFormats parses the output of "v4l2-ctl --list-formats-ext", returning
// the Motion-JPEG sizes with their highest framerate.
func parseFormats(s string) []camera.DeviceCap {
	caps := []camera.DeviceCap{}
	var format string
	var c *camera.DeviceCap
	flush := func() {
		if c != nil {
			caps = append(caps, *c)
			c = nil
		}
	}
	b := bufio.NewScanner(strings.NewReader(s))
	for b.Scan() {
		line := strings.TrimSpace(b.Text())
		if m := formatRegexp.FindStringSubmatch(line); m != nil {
			flush()
			format = m[1]
			continue
		}
		if format != "MJPG" {
			continue
		}
		if m := sizeRegexp.FindStringSubmatch(line); m != nil {
			flush()
			width, _ := strconv.Atoi(m[1])
			height, _ := strconv.Atoi(m[2])
			c = &camera.DeviceCap{Type: camera.TypeJPEG, Width: width, Height: height}
			continue
		}
		if m := intervalRegexp.FindStringSubmatch(line); m != nil && c != nil {
			fps, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if f := int(math.Round(fps)); f > c.Framerate {
				c.Framerate = f
			}
		}
	}
	flush()
	return caps
}
