package screencast

import (
	"context"
	"reflect"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/castarea/castarea"
)

type fakeCaller struct {
	method string
	args   []interface{}
	body   []interface{}
	err    error
}

func (f *fakeCaller) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f.method = method
	f.args = args
	return &dbus.Call{Method: method, Args: args, Body: f.body, Err: f.err}
}

func TestStartArea(t *testing.T) {
	f := &fakeCaller{body: []interface{}{true, "/home/user/Videos/test.mkv"}}
	c := &Client{obj: f}

	drawCursor := false
	opts := Options{Pipeline: "queue name=shellq ! c.sink_1", Framerate: 30, DrawCursor: &drawCursor}
	used, err := c.StartArea(context.Background(), castarea.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}, "test.mkv", opts)
	if err != nil {
		t.Fatalf("start area: %v", err)
	}
	if used != "/home/user/Videos/test.mkv" {
		t.Fatalf("used filename %q", used)
	}
	if f.method != "org.gnome.Shell.Screencast.ScreencastArea" {
		t.Fatalf("called method %q", f.method)
	}
	exp := []interface{}{
		int32(1920), int32(0), int32(2560), int32(1440), "test.mkv",
		map[string]dbus.Variant{
			"pipeline":    dbus.MakeVariant("queue name=shellq ! c.sink_1"),
			"framerate":   dbus.MakeVariant(int32(30)),
			"draw-cursor": dbus.MakeVariant(false),
		},
	}
	if !reflect.DeepEqual(f.args, exp) {
		t.Fatalf("call args, got %#v, expected %#v", f.args, exp)
	}
}

func TestStartAreaDefaults(t *testing.T) {
	f := &fakeCaller{body: []interface{}{true, "test.mkv"}}
	c := &Client{obj: f}
	if _, err := c.StartArea(context.Background(), castarea.Rect{Width: 10, Height: 10}, "test.mkv", Options{}); err != nil {
		t.Fatalf("start area: %v", err)
	}
	if m := f.args[5].(map[string]dbus.Variant); len(m) != 0 {
		t.Fatalf("expected no options, got %v", m)
	}
}

func TestStartAreaRefused(t *testing.T) {
	c := &Client{obj: &fakeCaller{body: []interface{}{false, ""}}}
	_, err := c.StartArea(context.Background(), castarea.Rect{Width: 10, Height: 10}, "test.mkv", Options{})
	if err != ErrNotStarted {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}

	callErr := errors.New("org.freedesktop.DBus.Error.AccessDenied")
	c = &Client{obj: &fakeCaller{err: callErr}}
	_, err = c.StartArea(context.Background(), castarea.Rect{Width: 10, Height: 10}, "test.mkv", Options{})
	if errors.Cause(err) != callErr {
		t.Fatalf("expected call error, got %v", err)
	}
}

func TestStop(t *testing.T) {
	f := &fakeCaller{body: []interface{}{true}}
	c := &Client{obj: f}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if f.method != "org.gnome.Shell.Screencast.StopScreencast" || len(f.args) != 0 {
		t.Fatalf("called %q with %v", f.method, f.args)
	}

	c = &Client{obj: &fakeCaller{body: []interface{}{false}}}
	if err := c.Stop(context.Background()); err != ErrNotStopped {
		t.Fatalf("expected ErrNotStopped, got %v", err)
	}
}
