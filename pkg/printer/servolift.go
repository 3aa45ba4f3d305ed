package printer

import (
	"context"
	"fmt"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// Servo positions for the lift arm, in raw encoder steps. Down presses
// the permanent magnet against the bed, up lifts it clear of the pieces.
const (
	liftDownPos = 1024
	liftUpPos   = 2048
	liftSettle  = 200 * time.Millisecond
)

// ServoLift wraps another transport and reinterprets Magnet as a
// physical lift: a Feetech servo lowers a permanent magnet instead of
// switching an electromagnet. Motion commands pass straight through.
type ServoLift struct {
	Transport
	bus   *feetech.Bus
	servo *feetech.Servo
}

// NewServoLift opens the servo bus on port and probes for the servo
// with the given ID. The inner transport keeps handling motion.
func NewServoLift(inner Transport, port string, id int) (*ServoLift, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open servo bus: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	found, err := bus.Scan(ctx, id, id)
	if err != nil || len(found) == 0 {
		bus.Close()
		return nil, fmt.Errorf("no lift servo with id %d on %s", id, port)
	}

	servo := feetech.NewServo(bus, found[0].ID, found[0].Model)
	if err := servo.Enable(ctx); err != nil {
		bus.Close()
		return nil, fmt.Errorf("enable lift servo: %w", err)
	}

	return &ServoLift{Transport: inner, bus: bus, servo: servo}, nil
}

// Magnet lowers the lift to engage and raises it to release. The inner
// transport's magnet command is never used.
func (s *ServoLift) Magnet(ctx context.Context, on bool) error {
	pos := liftUpPos
	if on {
		pos = liftDownPos
	}
	if err := s.servo.SetPosition(ctx, pos); err != nil {
		return fmt.Errorf("lift servo: %w", err)
	}
	select {
	case <-time.After(liftSettle):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Home raises the lift before the printer homes, so a piece never gets
// dragged through the homing run.
func (s *ServoLift) Home(ctx context.Context) error {
	if err := s.Magnet(ctx, false); err != nil {
		return err
	}
	return s.Transport.Home(ctx)
}

func (s *ServoLift) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.servo.Disable(ctx)
	s.bus.Close()
	return s.Transport.Close()
}

var _ Transport = (*ServoLift)(nil)
var _ Transport = (*Moonraker)(nil)
var _ Transport = (*Virtual)(nil)
