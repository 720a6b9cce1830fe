package main

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/castarea/castarea/displayconfig"
	"github.com/castarea/castarea/screencast"
)

const defaultFilename = "test.mkv"

type config struct {
	Duration          time.Duration
	Framerate         int
	HideCursor        bool
	Audio             bool
	CameraBackend     string
	Preview           string
	Verbose           bool
	ListDevices       bool
	DisplayBusName    string
	ScreencastBusName string
}

func addFlags(fs *pflag.FlagSet) {
	fs.Duration("duration", time.Minute, "how long to record")
	fs.Int("framerate", 0, "framerate of the screen capture, by default the shell's")
	fs.Bool("hide-cursor", false, "do not draw the mouse cursor")
	fs.Bool("audio", true, "record audio from the default pulseaudio source")
	fs.String("camera-backend", "gstreamer", "how to find webcams: gstreamer, v4l2 or none")
	fs.String("preview", "", "if set, write an image of the webcam placement to this file before recording")
	fs.Bool("verbose", false, "print verbose output")
	fs.Bool("list-devices", false, "if set, lists displays and webcams and exits")
	fs.String("display-bus-name", displayconfig.BusName, "bus name of the display configuration service")
	fs.String("screencast-bus-name", screencast.BusName, "bus name of the screencast service, org.gnome.Shell before GNOME 40")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("castarea")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetConfigName("castarea")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}
	return v
}

func loadConfig(v *viper.Viper) (config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, errors.Wrap(err, "reading config file")
		}
	}
	cfg := config{
		Duration:          v.GetDuration("duration"),
		Framerate:         v.GetInt("framerate"),
		HideCursor:        v.GetBool("hide-cursor"),
		Audio:             v.GetBool("audio"),
		CameraBackend:     v.GetString("camera-backend"),
		Preview:           v.GetString("preview"),
		Verbose:           v.GetBool("verbose"),
		ListDevices:       v.GetBool("list-devices"),
		DisplayBusName:    v.GetString("display-bus-name"),
		ScreencastBusName: v.GetString("screencast-bus-name"),
	}
	if cfg.Duration <= 0 {
		return config{}, errors.Errorf("duration must be > 0, got %v", cfg.Duration)
	}
	if cfg.Framerate < 0 {
		return config{}, errors.Errorf("framerate must be >= 0, got %d", cfg.Framerate)
	}
	if _, ok := listers[cfg.CameraBackend]; !ok && cfg.CameraBackend != "none" {
		return config{}, errors.Errorf("unknown camera backend %q", cfg.CameraBackend)
	}
	return cfg, nil
}
