package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/pkg/quat"
)

// RotationEvent represents a single face rotation from the cube.
type RotationEvent struct {
	FaceCode          byte   // Raw face+direction code (0x00-0x0B)
	CenterOrientation byte   // Center piece orientation
	Clockwise         bool   // Direction of rotation
	Color             string // Center color of the turned face
}

// BatteryEvent represents a battery level notification.
type BatteryEvent struct {
	Level int // 0-100 percentage
}

// OrientationEvent represents a whole-cube orientation notification.
type OrientationEvent struct {
	Rotation  quat.Quat       // normalized
	UpFace    pocketcube.Face // face pointing up
	FrontFace pocketcube.Face // face pointing at the solver
}

var colorNames = [6]string{"blue", "green", "white", "yellow", "red", "orange"}

// ColorToFace maps GoCube center colors to faces, assuming white on top and
// green in front.
var ColorToFace = map[string]pocketcube.Face{
	"white":  pocketcube.FaceU,
	"yellow": pocketcube.FaceD,
	"green":  pocketcube.FaceF,
	"blue":   pocketcube.FaceB,
	"red":    pocketcube.FaceR,
	"orange": pocketcube.FaceL,
}

// DecodeRotation decodes a rotation payload of [face_dir] [center] byte pairs.
// Even face codes are clockwise, odd codes counter-clockwise.
func DecodeRotation(payload []byte) ([]RotationEvent, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("%w: rotation payload must have even length, got %d", ErrInvalidPayload, len(payload))
	}

	events := make([]RotationEvent, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		faceCode := payload[i]
		colorIdx := int(faceCode / 2)
		if colorIdx >= len(colorNames) {
			return nil, fmt.Errorf("%w: unknown color index %d from face code 0x%02X", ErrInvalidPayload, colorIdx, faceCode)
		}

		events = append(events, RotationEvent{
			FaceCode:          faceCode,
			CenterOrientation: payload[i+1],
			Clockwise:         faceCode%2 == 0,
			Color:             colorNames[colorIdx],
		})
	}

	return events, nil
}

// Move converts the rotation into a move identifier.
func (r RotationEvent) Move() (pocketcube.MoveID, error) {
	face, ok := ColorToFace[r.Color]
	if !ok {
		return 0, fmt.Errorf("%w: unknown color %q", ErrInvalidPayload, r.Color)
	}
	turn := pocketcube.CCW
	if r.Clockwise {
		turn = pocketcube.CW
	}
	return pocketcube.MoveFor(face, turn)
}

// DecodeMoves decodes a rotation payload straight into move identifiers.
func DecodeMoves(payload []byte) ([]pocketcube.MoveID, error) {
	events, err := DecodeRotation(payload)
	if err != nil {
		return nil, err
	}

	moves := make([]pocketcube.MoveID, 0, len(events))
	for _, ev := range events {
		id, err := ev.Move()
		if err != nil {
			return nil, err
		}
		moves = append(moves, id)
	}
	return moves, nil
}

// DecodeBattery decodes a battery message payload.
func DecodeBattery(payload []byte) (*BatteryEvent, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("%w: battery payload too short", ErrInvalidPayload)
	}
	return &BatteryEvent{Level: int(payload[0])}, nil
}

// DecodeOrientation decodes an orientation payload.
// Format: ASCII "x#y#z#w", where w may carry trailing non-numeric bytes.
func DecodeOrientation(payload []byte) (*OrientationEvent, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: orientation payload must have 4 parts, got %d", ErrInvalidPayload, len(parts))
	}

	var v [4]float64
	for i, part := range parts {
		if i == 3 {
			part = extractNumeric(part)
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: component %d: %v", ErrInvalidPayload, i, err)
		}
		v[i] = f
	}

	// The cube sends raw integers; Normalize also guards the zero case.
	q := quat.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}.Normalize()

	return &OrientationEvent{
		Rotation:  q,
		UpFace:    facePointing(q.Rotate(quat.AxisY)),
		FrontFace: facePointing(q.Rotate(quat.AxisZ)),
	}, nil
}

// facePointing returns the face whose outward normal is closest to v.
func facePointing(v quat.Vec3) pocketcube.Face {
	axis, sign := v.Dominant()
	switch {
	case axis == 0 && sign > 0:
		return pocketcube.FaceR
	case axis == 0:
		return pocketcube.FaceL
	case axis == 1 && sign > 0:
		return pocketcube.FaceU
	case axis == 1:
		return pocketcube.FaceD
	case sign > 0:
		return pocketcube.FaceF
	default:
		return pocketcube.FaceB
	}
}

// extractNumeric returns the leading numeric portion (optional minus sign,
// digits and dots) of s.
func extractNumeric(s string) string {
	end := 0
	for i, r := range s {
		if (r == '-' && i == 0) || (r >= '0' && r <= '9') || r == '.' {
			end = i + 1
			continue
		}
		break
	}
	return s[:end]
}
