package ble

import (
	"testing"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/internal/protocol"
)

// newTestClient returns a client that has no adapter; it can only decode.
func newTestClient() *Client {
	return &Client{log: zap.NewNop(), battery: -1}
}

func TestHandleRotationNotification(t *testing.T) {
	c := newTestClient()
	var got []pocketcube.MoveID
	c.SetMoveCallback(func(m pocketcube.MoveID) { got = append(got, m) })

	c.HandleNotification(protocol.Encode(protocol.MsgTypeRotation, []byte{0x08, 0x00, 0x05, 0x00}))

	if pocketcube.FormatMoves(got) != "R U'" {
		t.Errorf("moves = %v, want R U'", got)
	}
}

func TestHandleBatteryNotification(t *testing.T) {
	c := newTestClient()
	if c.Battery() != -1 {
		t.Fatalf("initial battery = %d, want -1", c.Battery())
	}
	c.HandleNotification(protocol.Encode(protocol.MsgTypeBattery, []byte{64}))
	if c.Battery() != 64 {
		t.Errorf("battery = %d, want 64", c.Battery())
	}
}

func TestHandleOrientationNotification(t *testing.T) {
	c := newTestClient()
	var up pocketcube.Face
	c.SetOrientationCallback(func(ev *protocol.OrientationEvent) { up = ev.UpFace })
	c.HandleNotification(protocol.Encode(protocol.MsgTypeOrientation, []byte("0#0#0#1")))
	if up != pocketcube.FaceU {
		t.Errorf("up = %q, want U", up)
	}
}

func TestHandleMalformedNotification(t *testing.T) {
	c := newTestClient()
	called := false
	c.SetMoveCallback(func(pocketcube.MoveID) { called = true })

	c.HandleNotification([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
	c.HandleNotification(protocol.Encode(protocol.MsgTypeRotation, []byte{0x0F, 0x00}))

	if called {
		t.Error("malformed frames must not produce moves")
	}
}

func TestSendCommandRequiresConnection(t *testing.T) {
	c := newTestClient()
	if err := c.RequestBattery(); err != ErrNotConnected {
		t.Errorf("RequestBattery err = %v, want ErrNotConnected", err)
	}
	if err := c.Disconnect(); err != nil {
		t.Errorf("Disconnect when idle = %v", err)
	}
}
