package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gwillem/printerchess/pkg/gcode"
)

const (
	scriptPath     = "/printer/gcode/script"
	requestTimeout = 15 * time.Second
	maxRetries     = 2
	retryBackoff   = 400 * time.Millisecond
)

// Moonraker sends g-code to a Klipper printer through the Moonraker
// HTTP API. Every command goes through the gcode/script endpoint, which
// blocks until the printer has accepted the line.
type Moonraker struct {
	base   string
	fan    string
	client *http.Client
	log    zerolog.Logger
}

// NewMoonraker returns a transport for the given base URL, e.g.
// "http://voron.local:7125". The fan is the Klipper generic-fan name
// that switches the electromagnet.
func NewMoonraker(baseURL, fan string) *Moonraker {
	return &Moonraker{
		base:   strings.TrimRight(baseURL, "/"),
		fan:    fan,
		client: &http.Client{Timeout: requestTimeout},
		log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Str("printer", baseURL).Logger(),
	}
}

func (m *Moonraker) Home(ctx context.Context) error {
	for _, cmd := range gcode.Home() {
		if err := m.script(ctx, cmd); err != nil {
			return fmt.Errorf("home: %w", err)
		}
	}
	return nil
}

func (m *Moonraker) MoveTo(ctx context.Context, p gcode.MM, feed int) error {
	return m.script(ctx, gcode.Rapid(p, feed))
}

func (m *Moonraker) Magnet(ctx context.Context, on bool) error {
	speed := 0.0
	if on {
		speed = 1.0
	}
	return m.script(ctx, gcode.FanSpeed(m.fan, speed))
}

func (m *Moonraker) Dwell(ctx context.Context, ms int) error {
	return m.script(ctx, gcode.Dwell(ms))
}

func (m *Moonraker) Close() error {
	m.client.CloseIdleConnections()
	return nil
}

// script posts one g-code line, retrying transient failures. Moonraker
// answers 400 with a Klipper error string for rejected commands; those
// are not retried.
func (m *Moonraker) script(ctx context.Context, cmd string) error {
	body, err := json.Marshal(map[string]string{"script": cmd})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			m.log.Warn().Str("cmd", cmd).Err(lastErr).Int("attempt", attempt).Msg("retrying")
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = m.post(ctx, body)
		if lastErr == nil {
			m.log.Debug().Str("cmd", cmd).Msg("sent")
			return nil
		}
		var rejected *commandError
		if errors.As(lastErr, &rejected) {
			break
		}
	}
	return fmt.Errorf("moonraker %q: %w", cmd, lastErr)
}

func (m *Moonraker) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.base+scriptPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return &commandError{status: resp.StatusCode, body: string(msg)}
		}
		// 5xx means Moonraker or a proxy hiccuped, not that Klipper
		// rejected the command; the caller retries these.
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
	}
	return nil
}

// commandError is a definitive rejection from Klipper, as opposed to a
// transport hiccup worth retrying.
type commandError struct {
	status int
	body   string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("printer rejected command (%d): %s", e.status, e.body)
}
