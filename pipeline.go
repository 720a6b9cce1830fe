package castarea

import (
	"fmt"
	"strconv"
	"strings"
)

// WebcamSource is a camera composited on top of the screen.
type WebcamSource struct {
	Device  string // V4L2 device path, eg /dev/video0.
	Caps    string // Caps to request from the device, must be image/jpeg.
	Overlay Rect   // Placement on the screen, relative to the recorded area.
}

// PipelineOpts has options for BuildPipeline.
type PipelineOpts struct {
	Webcam *WebcamSource // If nil, only the screen is recorded.
	Audio  bool          // Record the default pulseaudio source.
}

// BuildPipeline returns a gst-launch style pipeline description for the shell
// screencast service. The shell links its screen source to the first unlinked
// pad (the shellq queue) and replaces %T with a thread count.
//
// The screen goes to compositor pad sink_1, the webcam to sink_0. Output is
// VP8 and Opus in a streamable Matroska file.
func BuildPipeline(opts PipelineOpts) string {
	var b strings.Builder
	b.WriteString("compositor name=c background=black ")
	if wc := opts.Webcam; wc != nil {
		o := wc.Overlay
		b.WriteString("sink_1::zorder=1 sink_0::zorder=2 ")
		fmt.Fprintf(&b, "sink_0::xpos=%d sink_0::ypos=%d sink_0::width=%d sink_0::height=%d\n", o.X, o.Y, o.Width, o.Height)
		fmt.Fprintf(&b, "v4l2src device=%s ! %s ! jpegdec ! queue ! c.sink_0\n", QuoteValue(wc.Device), wc.Caps)
	}
	b.WriteString("\nmatroskamux streamable=true name=m\n")
	if opts.Audio {
		b.WriteString("pulsesrc ! audioconvert ! opusenc ! queue name=audioq ! m.\n")
	}
	b.WriteString("c. ! queue name=coutq ! vp8enc min_quantizer=13 max_quantizer=13 cpu-used=5 deadline=1000000 threads=%T ! queue name=videoq ! m.\n")
	b.WriteString("queue name=shellq ! c.sink_1\n")
	return b.String()
}

// QuoteValue quotes a property value for a gst-launch description if it
// would otherwise be split or misparsed, eg a device path with spaces.
func QuoteValue(s string) string {
	if strings.ContainsAny(s, " \t\n\"'!") {
		return strconv.Quote(s)
	}
	return s
}
