package engine

import "math"

// GesturePhase is the transient per-card interaction state.
type GesturePhase int

const (
	PhaseIdle GesturePhase = iota
	PhaseDragging
	PhaseCommitting
	PhaseResetting
)

func (p GesturePhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseCommitting:
		return "committing"
	case PhaseResetting:
		return "resetting"
	default:
		return ""
	}
}

// SwipeOutcome classifies a released gesture.
type SwipeOutcome int

const (
	OutcomeNone SwipeOutcome = iota
	OutcomeCommittedLeft
	OutcomeCommittedRight
)

func (o SwipeOutcome) String() string {
	switch o {
	case OutcomeCommittedLeft:
		return "committed-left"
	case OutcomeCommittedRight:
		return "committed-right"
	default:
		return "none"
	}
}

// PointerSample is one raw pointer update: horizontal and vertical translation
// from the drag origin plus instantaneous velocity, in logical pixels.
type PointerSample struct {
	DX       float64
	DY       float64
	Velocity float64
}

// CardTransform holds the continuous render values derived from a sample.
// The zero value is the at-rest card: no translation, no rotation.
type CardTransform struct {
	TranslateX float64
	TranslateY float64
	Rotation   float64 // degrees
}

const (
	// A swipe commits when |dx| exceeds this fraction of the card width.
	commitWidthFraction = 0.20

	// Velocity floor for a flick commit, logical px/sec. A fast flick
	// commits even when released short of the translation threshold.
	velocityFloor = 800.0

	// Rotation is linear in dx and clamped to this magnitude.
	maxRotationDegrees = 15.0

	// Degrees of rotation per card-width of horizontal translation.
	rotationPerWidth = 30.0
)

// Valid reports whether the sample carries usable numbers. Malformed samples
// (NaN or Inf translation/velocity) are discarded as no-ops upstream.
func (s PointerSample) Valid() bool {
	for _, v := range []float64{s.DX, s.DY, s.Velocity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Classify returns the swipe outcome for a released gesture.
//
// Commit requires |dx| strictly greater than 20% of the card width, or
// |velocity| strictly greater than the velocity floor. A release exactly at a
// threshold never commits; a near-zero-translation tap never commits because
// direction is taken from sign(dx).
func Classify(sample PointerSample, cardWidth float64) SwipeOutcome {
	if !sample.Valid() || cardWidth <= 0 || sample.DX == 0 {
		return OutcomeNone
	}

	threshold := commitWidthFraction * cardWidth
	if math.Abs(sample.DX) > threshold || math.Abs(sample.Velocity) > velocityFloor {
		if sample.DX < 0 {
			return OutcomeCommittedLeft
		}
		return OutcomeCommittedRight
	}

	return OutcomeNone
}

// Transform derives the continuous render values for an in-flight drag.
// Invalid samples map to the at-rest transform.
func Transform(sample PointerSample, cardWidth float64) CardTransform {
	if !sample.Valid() || cardWidth <= 0 {
		return CardTransform{}
	}

	rotation := sample.DX / cardWidth * rotationPerWidth
	if rotation > maxRotationDegrees {
		rotation = maxRotationDegrees
	} else if rotation < -maxRotationDegrees {
		rotation = -maxRotationDegrees
	}

	return CardTransform{
		TranslateX: sample.DX,
		TranslateY: sample.DY,
		Rotation:   rotation,
	}
}

// SpringTarget is the transform the card springs back to when a gesture
// releases below both thresholds.
func SpringTarget() CardTransform {
	return CardTransform{}
}
