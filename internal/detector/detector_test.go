package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestSideFor_MirrorsHandedness(t *testing.T) {
	// The capture feed is mirrored, so the detector's labels are
	// swapped relative to the user's actual hands.
	if got := SideFor("Left"); got != SideRight {
		t.Errorf("SideFor(Left) = %q, want %q", got, SideRight)
	}
	if got := SideFor("Right"); got != SideLeft {
		t.Errorf("SideFor(Right) = %q, want %q", got, SideLeft)
	}
}

func TestHandLandmarks_Side(t *testing.T) {
	hand := HandLandmarks{Handedness: "Left"}
	if got := hand.Side(); got != SideRight {
		t.Errorf("Side() = %q, want %q", got, SideRight)
	}
}

func TestHandLandmarks_MeanDepth(t *testing.T) {
	var hand HandLandmarks
	for i := 0; i < NumLandmarks; i++ {
		hand.Points[i] = Point3D{Z: -0.5}
	}
	if got := hand.MeanDepth(); math.Abs(got+0.5) > epsilon {
		t.Errorf("MeanDepth() = %f, want -0.5", got)
	}

	// Mixed depths average out
	hand.Points[0].Z = 0.5
	want := (-0.5*float64(NumLandmarks-1) + 0.5) / float64(NumLandmarks)
	if got := hand.MeanDepth(); math.Abs(got-want) > epsilon {
		t.Errorf("MeanDepth() = %f, want %f", got, want)
	}
}

func TestDistance(t *testing.T) {
	a := Point3D{X: 0, Y: 0, Z: 0}
	b := Point3D{X: 3, Y: 4, Z: 0}
	if got := Distance(a, b); math.Abs(got-5.0) > epsilon {
		t.Errorf("Distance() = %f, want 5.0", got)
	}

	if got := Distance(a, a); got != 0 {
		t.Errorf("Distance to self = %f, want 0", got)
	}
}

func TestMockDetector(t *testing.T) {
	m := NewMockDetector()

	// No hands configured: empty result, no error
	hands, err := m.Detect(nil)
	if err != nil {
		t.Fatalf("Detect returned unexpected error: %v", err)
	}
	if len(hands) != 0 {
		t.Errorf("expected 0 hands, got %d", len(hands))
	}

	m.SetHands([]HandLandmarks{OpenPalmLandmarks()})
	hands, err = m.Detect(nil)
	if err != nil {
		t.Fatalf("Detect returned unexpected error: %v", err)
	}
	if len(hands) != 1 {
		t.Fatalf("expected 1 hand, got %d", len(hands))
	}
	if hands[0].Handedness != "Right" {
		t.Errorf("expected handedness 'Right', got %q", hands[0].Handedness)
	}

	wantErr := errors.New("detector offline")
	m.SetError(wantErr)
	if _, err := m.Detect(nil); !errors.Is(err, wantErr) {
		t.Errorf("expected configured error, got %v", err)
	}
}

func TestFixtures_FingerGeometry(t *testing.T) {
	// The preset poses encode the tip-above-PIP convention the
	// classifier relies on; pin it down here so fixture edits that
	// break the geometry fail close to the source.
	tips := []int{IndexTip, MiddleTip, RingTip, PinkyTip}

	open := OpenPalmLandmarks()
	for _, tip := range tips {
		if open.Points[tip].Y >= open.Points[tip-2].Y {
			t.Errorf("open palm: tip %d not above PIP", tip)
		}
	}

	fist := FistLandmarks()
	for _, tip := range tips {
		if fist.Points[tip].Y <= fist.Points[tip-2].Y {
			t.Errorf("fist: tip %d not curled below PIP", tip)
		}
	}
	if fist.Points[ThumbTip].Y <= fist.Points[ThumbMCP].Y {
		t.Error("fist: thumb should not be extended")
	}

	point := PointLandmarks()
	if point.Points[IndexTip].Y >= point.Points[IndexPIP].Y {
		t.Error("point: index finger should be extended")
	}
	for _, tip := range []int{MiddleTip, RingTip, PinkyTip} {
		if point.Points[tip].Y <= point.Points[tip-2].Y {
			t.Errorf("point: tip %d should be curled", tip)
		}
	}

	pinch := PinchLandmarks()
	if d := Distance(pinch.Points[ThumbTip], pinch.Points[IndexTip]); d >= 0.07 {
		t.Errorf("pinch: thumb-index distance %f, want < 0.07", d)
	}
}
