package orchestration

import (
	"context"
	stderrors "errors"
	"sync"

	"salaryinsights/internal/errors"
	"salaryinsights/internal/formatters"
	"salaryinsights/internal/types"
)

// Notification texts shown for failed flows
const (
	MessageSalaryFailed      = "Failed to predict salary. Please try again later."
	MessageCoverLetterFailed = "Failed to generate cover letter. Please try again."
	MessageSkillsFailed      = "Failed to suggest skills. Please try again."
)

// ErrNoResult is returned when a panel is requested before a salary result exists
var ErrNoResult = stderrors.New("no salary result to build on")

// Flows is the set of generation flows the controller drives
type Flows interface {
	PredictSalary(ctx context.Context, input types.PredictSalaryInput) (types.SalaryEstimate, error)
	GenerateCoverLetter(ctx context.Context, input types.GenerateCoverLetterInput) (types.CoverLetter, error)
	SuggestSkills(ctx context.Context, input types.SuggestSkillsInput) ([]string, error)
}

// Snapshot is a consistent copy of the controller used for rendering
type Snapshot struct {
	State           State
	Generation      uint64
	Profile         types.JobProfile
	HasProfile      bool
	Estimate        types.SalaryEstimate
	PredictedSalary string
	Error           string
	Skills          PanelView[[]Skill]
	CoverLetter     PanelView[string]
}

// Busy reports whether any flow of the snapshot is still running
func (s Snapshot) Busy() bool {
	return s.State == StateLoading || s.Skills.Loading || s.CoverLetter.Loading
}

// Controller runs the flows of one session. At most one salary prediction is
// in flight: every submit bumps the generation, cancels the previous call and
// completions of older generations are dropped.
type Controller struct {
	mu         sync.Mutex
	base       context.Context
	flows      Flows
	money      *formatters.MoneyFormatter
	logger     *errors.Logger
	wg         sync.WaitGroup
	state      State
	generation uint64
	cancel     context.CancelFunc

	profile    types.JobProfile
	hasProfile bool
	estimate   types.SalaryEstimate
	predicted  string
	errMessage string

	skills      panel[[]Skill]
	coverLetter panel[string]
}

// NewController creates an idle controller. Flow calls derive their context
// from base so they outlive the HTTP request that started them.
func NewController(base context.Context, flows Flows, money *formatters.MoneyFormatter, logger *errors.Logger) *Controller {
	if money == nil {
		money = formatters.NewMoneyFormatter("en-US")
	}
	return &Controller{
		base:        base,
		flows:       flows,
		money:       money,
		logger:      logger,
		coverLetter: panel[string]{clearOnStart: true},
	}
}

// Submit starts a salary prediction for profile and returns its generation
func (c *Controller) Submit(profile types.JobProfile) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	generation := c.generation
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel

	c.state = Transition(c.state, EventSubmit)
	c.profile, c.hasProfile = profile, true
	c.estimate, c.predicted, c.errMessage = types.SalaryEstimate{}, "", ""
	c.skills.reset()
	c.coverLetter.reset()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		estimate, err := c.flows.PredictSalary(ctx, profile.SalaryInput())
		c.completeSalary(generation, estimate, err)
	}()

	return generation
}

// Regenerate resubmits the current profile
func (c *Controller) Regenerate() (uint64, error) {
	c.mu.Lock()
	profile, ok := c.profile, c.hasProfile
	c.mu.Unlock()
	if !ok {
		return 0, ErrNoResult
	}
	return c.Submit(profile), nil
}

func (c *Controller) completeSalary(generation uint64, estimate types.SalaryEstimate, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		c.logger.Debug("Discarding stale salary prediction",
			"generation", generation,
			"current_generation", c.generation)
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if err != nil {
		c.logger.LogError(err, "Salary prediction failed", "generation", generation)
		c.state = Transition(c.state, EventFailed)
		c.errMessage = MessageSalaryFailed
		return
	}

	c.state = Transition(c.state, EventSucceeded)
	c.estimate = estimate
	c.predicted = c.money.FormatSalaryRange(estimate)
}

// Dismiss closes the error notification
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Transition(c.state, EventDismiss)
	if c.state == StateIdle {
		c.errMessage = ""
	}
}

// SuggestSkills starts a skill suggestion for the current result. A
// successful answer replaces the previous suggestions.
func (c *Controller) SuggestSkills() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateResult {
		return ErrNoResult
	}
	ctx, generation := c.skills.start(c.base)
	profile := c.profile

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		suggested, err := c.flows.SuggestSkills(ctx, profile.SkillsInput())

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			if c.skills.finish(generation, nil, MessageSkillsFailed) {
				c.logger.LogError(err, "Skill suggestion failed")
			}
			return
		}
		c.skills.finish(generation, MarkKnownSkills(suggested, profile.Skills), "")
	}()
	return nil
}

// GenerateCoverLetter starts a cover letter for the current result. The
// previous letter is cleared immediately.
func (c *Controller) GenerateCoverLetter() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateResult {
		return ErrNoResult
	}
	ctx, generation := c.coverLetter.start(c.base)
	input := c.profile.CoverLetterInput(c.predicted)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		letter, err := c.flows.GenerateCoverLetter(ctx, input)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			if c.coverLetter.finish(generation, "", MessageCoverLetterFailed) {
				c.logger.LogError(err, "Cover letter generation failed")
			}
			return
		}
		c.coverLetter.finish(generation, letter.Text, "")
	}()
	return nil
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:           c.state,
		Generation:      c.generation,
		Profile:         c.profile,
		HasProfile:      c.hasProfile,
		Estimate:        c.estimate,
		PredictedSalary: c.predicted,
		Error:           c.errMessage,
		Skills:          c.skills.view(),
		CoverLetter:     c.coverLetter.view(),
	}
}

// Wait blocks until every started flow call has returned
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels all running flow calls
func (c *Controller) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.skills.stop()
	c.coverLetter.stop()
	c.mu.Unlock()
}
