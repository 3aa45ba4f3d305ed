package printer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gwillem/printerchess/pkg/gcode"
)

func TestVirtualRecords(t *testing.T) {
	v := NewVirtual()
	ctx := context.Background()

	if err := v.Home(ctx); err != nil {
		t.Fatal(err)
	}
	if err := v.MoveTo(ctx, gcode.MM{X: 190, Y: 150}, 12000); err != nil {
		t.Fatal(err)
	}
	if err := v.Magnet(ctx, true); err != nil {
		t.Fatal(err)
	}
	if err := v.Dwell(ctx, 120); err != nil {
		t.Fatal(err)
	}

	if !v.Homed() {
		t.Error("not homed")
	}
	if got := v.Position(); got != (gcode.MM{X: 190, Y: 150}) {
		t.Errorf("position = %v", got)
	}
	if !v.MagnetOn() {
		t.Error("magnet should be on")
	}

	cmds := v.Commands()
	want := []string{
		"M17", "G90", "G28 X Y",
		"G0 X190.000 Y150.000 F12000",
		"SET_FAN_SPEED FAN=magnet SPEED=1",
		"G4 P120",
	}
	if len(cmds) != len(want) {
		t.Fatalf("recorded %d commands, want %d: %v", len(cmds), len(want), cmds)
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Errorf("command %d = %q, want %q", i, cmds[i], want[i])
		}
	}
}

func TestMoonrakerSendsScript(t *testing.T) {
	var gotScript string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/printer/gcode/script" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		gotScript = body["script"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMoonraker(srv.URL, "magnet")
	if err := m.MoveTo(context.Background(), gcode.MM{X: 30, Y: 30}, 6000); err != nil {
		t.Fatal(err)
	}
	if gotScript != "G0 X30.000 Y30.000 F6000" {
		t.Errorf("script = %q", gotScript)
	}
}

func TestMoonrakerRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMoonraker(srv.URL, "magnet")
	if err := m.Dwell(context.Background(), 50); err != nil {
		t.Fatalf("should have recovered: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("made %d calls, want 3", calls.Load())
	}
}

func TestMoonrakerGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewMoonraker(srv.URL, "magnet")
	if err := m.Dwell(context.Background(), 50); err == nil {
		t.Fatal("persistent outage not reported")
	}
	if calls.Load() != 3 {
		t.Errorf("made %d calls, want 3", calls.Load())
	}
}

func TestMoonrakerDoesNotRetryRejection(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "Unknown command: BOGUS", http.StatusBadRequest)
	}))
	defer srv.Close()

	m := NewMoonraker(srv.URL, "magnet")
	if err := m.Magnet(context.Background(), true); err == nil {
		t.Fatal("rejection not reported")
	}
	if calls.Load() != 1 {
		t.Errorf("made %d calls, want 1", calls.Load())
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printerchess.json")

	cfg := DefaultConfig()
	cfg.MoonrakerURL = "http://voron.local:7125"
	cfg.MagnetDriver = DriverServo
	cfg.ServoPort = "/dev/ttyUSB0"
	cfg.ServoID = 1
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.MoonrakerURL != cfg.MoonrakerURL || loaded.ServoPort != cfg.ServoPort {
		t.Errorf("loaded %+v", loaded)
	}
	if loaded.Feed != cfg.Feed || loaded.WorkArea != cfg.WorkArea {
		t.Errorf("defaults lost: %+v", loaded)
	}
}

func TestConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printerchess.json")
	if err := os.WriteFile(path, []byte(`{"moonraker_url": "http://printer:7125"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MoonrakerURL != "http://printer:7125" {
		t.Errorf("url = %s", cfg.MoonrakerURL)
	}
	if cfg.Feed != DefaultConfig().Feed || cfg.Hz != DefaultConfig().Hz {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestUnknownMagnetDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MagnetDriver = "levitation"
	if _, err := cfg.NewTransport(); err == nil {
		t.Error("bogus driver accepted")
	}
}
