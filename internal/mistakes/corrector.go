package mistakes

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/examprep/internal/clock"
	"github.com/abhisek/examprep/internal/profile"
)

const (
	// CorrectionXP is awarded for correctly re-answering a logged mistake.
	CorrectionXP = 25
	// ResolveDelay is how long a correct answer stays on screen before
	// the entry leaves the log.
	ResolveDelay = 1500 * time.Millisecond
	// ResetDelay is how long a wrong answer's explanation shows before
	// the item can be retried.
	ResetDelay = 2000 * time.Millisecond
)

// Phase is the correction state of the item being reviewed.
type Phase int

const (
	Idle Phase = iota
	Correct
	Wrong
)

func (p Phase) String() string {
	switch p {
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	default:
		return "idle"
	}
}

// Rewarder is the profile side of the correction workflow.
type Rewarder interface {
	AwardXP(ctx context.Context, amount int) error
	ResolveMistake(ctx context.Context, id string) error
}

// Corrector runs the idle -> correct|wrong workflow for one reviewed
// item at a time. A correct answer is the only way an item leaves the
// log.
type Corrector struct {
	clk    clock.Clock
	rec    Rewarder
	logger *slog.Logger

	mu       sync.Mutex
	activeID string
	selected int
	phase    Phase
	pending  clock.Timer
	// resolving is the id whose removal is scheduled.
	resolving string
}

// NewCorrector returns an idle Corrector.
func NewCorrector(clk clock.Clock, rec Rewarder, logger *slog.Logger) *Corrector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Corrector{clk: clk, rec: rec, logger: logger, selected: -1}
}

// State returns the reviewed item's id, its phase and the selected option.
func (c *Corrector) State() (id string, phase Phase, selected int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID, c.phase, c.selected
}

// Select answers q with option. Input is ignored while feedback for the
// same item is showing. Picking a different item first settles anything
// pending for the previous one.
func (c *Corrector) Select(ctx context.Context, q profile.Question, option int) (Phase, error) {
	c.mu.Lock()
	if c.activeID == q.ID && c.phase != Idle {
		phase := c.phase
		c.mu.Unlock()
		return phase, nil
	}
	flush := c.settleLocked()
	c.mu.Unlock()
	if err := c.resolve(ctx, flush); err != nil {
		return Idle, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeID = q.ID
	c.selected = option

	if !q.IsCorrect(option) {
		c.phase = Wrong
		c.pending = c.clk.AfterFunc(ResetDelay, c.resetAfter(q.ID))
		return Wrong, nil
	}

	c.phase = Correct
	if err := c.rec.AwardXP(ctx, CorrectionXP); err != nil {
		c.logger.Warn("awarding correction XP failed", "id", q.ID, "error", err)
	}
	c.resolving = q.ID
	c.pending = c.clk.AfterFunc(ResolveDelay, c.resolveAfter(q.ID))
	return Correct, nil
}

func (c *Corrector) resetAfter(id string) func() {
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.activeID != id || c.phase != Wrong {
			return
		}
		c.phase = Idle
		c.selected = -1
		c.pending = nil
	}
}

func (c *Corrector) resolveAfter(id string) func() {
	return func() {
		c.mu.Lock()
		if c.resolving != id {
			c.mu.Unlock()
			return
		}
		c.resolving = ""
		c.pending = nil
		c.activeID = ""
		c.phase = Idle
		c.selected = -1
		c.mu.Unlock()

		if err := c.resolve(context.Background(), id); err != nil {
			c.logger.Warn("resolving mistake failed", "id", id, "error", err)
		}
	}
}

// settleLocked cancels the pending timer and returns the id whose
// resolution must be applied now, if any.
func (c *Corrector) settleLocked() string {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	id := c.resolving
	c.resolving = ""
	c.activeID = ""
	c.phase = Idle
	c.selected = -1
	return id
}

func (c *Corrector) resolve(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return c.rec.ResolveMistake(ctx, id)
}

// Close cancels pending timers. A resolution that was still waiting on
// its display delay is applied immediately.
func (c *Corrector) Close(ctx context.Context) error {
	c.mu.Lock()
	id := c.settleLocked()
	c.mu.Unlock()
	return c.resolve(ctx, id)
}
