package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Outcome is the categorical result of a spin.
type Outcome string

const (
	OutcomeWin      Outcome = "WIN"
	OutcomeLose     Outcome = "LOSE"
	OutcomeTryAgain Outcome = "TRY_AGAIN"
)

// SegmentLayout is the wheel's ordered partition into equal-angle slices,
// enumerated clockwise starting at the top pointer.
type SegmentLayout []Outcome

// DefaultLayout mirrors the 12-slice wheel the client renders.
var DefaultLayout = SegmentLayout{
	OutcomeWin, OutcomeLose, OutcomeTryAgain, OutcomeLose,
	OutcomeWin, OutcomeLose, OutcomeTryAgain, OutcomeLose,
	OutcomeLose, OutcomeTryAgain, OutcomeLose, OutcomeLose,
}

// LayoutWeights derives outcome weights from a layout's slice counts. Using
// these as the configured weights keeps the visual odds identical to the
// real odds.
func LayoutWeights(layout SegmentLayout) map[Outcome]float64 {
	weights := make(map[Outcome]float64)
	for _, o := range layout {
		weights[o] += 1.0 / float64(len(layout))
	}
	return weights
}

// CheckLayoutWeights returns the largest divergence between an outcome's
// share of slices and its configured weight. The wheel's visual odds silently
// drift from the real odds when this grows; keeping them aligned is a
// configuration obligation the engine cannot enforce, so main warns above 1%.
func CheckLayoutWeights(layout SegmentLayout, weights map[Outcome]float64) float64 {
	ratios := LayoutWeights(layout)

	maxDiff := 0.0
	for o, w := range weights {
		if d := math.Abs(ratios[o] - w); d > maxDiff {
			maxDiff = d
		}
	}
	for o, r := range ratios {
		if _, ok := weights[o]; !ok && r > maxDiff {
			maxDiff = r
		}
	}
	return maxDiff
}

// SpinService selects spin outcomes and maps them to wheel rotation targets.
// It holds no per-session state: previousTotalRotation belongs to the caller,
// who threads it through successive spins within one wheel view.
type SpinService struct {
	Weights map[Outcome]float64
	Layout  SegmentLayout

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSpinService(weights map[Outcome]float64, layout SegmentLayout) *SpinService {
	return &SpinService{
		Weights: weights,
		Layout:  layout,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SpinService) randFloat() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *SpinService) randIntn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// DetermineOutcome draws one outcome according to weights — the single source
// of truth for win/lose odds. Weights must be non-negative and sum to 1.
func (s *SpinService) DetermineOutcome(weights map[Outcome]float64) (Outcome, error) {
	if len(weights) == 0 {
		return "", errors.New("no outcome weights configured")
	}

	keys := make([]string, 0, len(weights))
	sum := 0.0
	for o, w := range weights {
		if w < 0 {
			return "", fmt.Errorf("negative weight %v for outcome %s", w, o)
		}
		sum += w
		keys = append(keys, string(o))
	}
	if math.Abs(sum-1) > 1e-6 {
		return "", fmt.Errorf("outcome weights sum to %v, want 1", sum)
	}
	sort.Strings(keys)

	r := s.randFloat()
	acc := 0.0
	for _, k := range keys {
		acc += weights[Outcome(k)]
		if r < acc {
			return Outcome(k), nil
		}
	}
	// Rounding can leave r a hair above the accumulated sum.
	return Outcome(keys[len(keys)-1]), nil
}

// ComputeRotation maps an already-chosen outcome to the wheel's next resting
// rotation: pick one of the outcome's slices uniformly, align its center
// under the top pointer, and add 10 or 11 full turns for a convincing
// multi-turn spin. The result is always strictly greater than
// previousTotalRotation, so the animation only ever moves forward.
func (s *SpinService) ComputeRotation(previousTotalRotation float64, outcome Outcome, layout SegmentLayout) (float64, error) {
	if len(layout) == 0 {
		return 0, errors.New("empty segment layout")
	}

	var candidates []int
	for i, o := range layout {
		if o == outcome {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, fmt.Errorf("layout has no slice for outcome %s", outcome)
	}

	idx := candidates[s.randIntn(len(candidates))]
	sliceAngle := 360.0 / float64(len(layout))
	targetAngle := 360.0 - float64(idx)*sliceAngle + sliceAngle/2

	spins := float64(10 + s.randIntn(2)) // 10 or 11 full rotations
	return previousTotalRotation + spins*360 + targetAngle, nil
}

// Spin handles POST /spin: choose the outcome first, then a rotation that
// lands on it. The client animates toward the returned rotation and threads
// it back as previous_rotation on the next spin.
func (s *SpinService) Spin(c *fiber.Ctx) error {
	var req struct {
		PreviousRotation float64 `json:"previous_rotation"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.PreviousRotation < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "previous_rotation must be non-negative"})
	}

	outcome, err := s.DetermineOutcome(s.Weights)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	rotation, err := s.ComputeRotation(req.PreviousRotation, outcome, s.Layout)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"outcome":  outcome,
		"rotation": rotation,
	})
}
