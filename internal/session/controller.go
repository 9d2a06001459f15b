package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/catalog"
	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/progression"
	"github.com/wheninja/wheninja/internal/random"
	"github.com/wheninja/wheninja/internal/rewards"
	"github.com/wheninja/wheninja/internal/store"
)

// DefaultChatChance is the probability of a chat interlude at each
// streak milestone.
const DefaultChatChance = 0.5

// ChatEvery is the streak step at which a chat may appear.
const ChatEvery = 3

// Options configures a Controller.
type Options struct {
	Store      *progress.Store
	Catalog    *catalog.Catalog
	Events     store.EventRepo // optional
	Rand       random.Source   // optional
	Logger     *zap.Logger     // optional
	ChatChance float64         // 0 uses DefaultChatChance, negative disables chats
}

// Controller owns the in-memory progress record and drives play.
// It is not safe for concurrent use.
type Controller struct {
	store      *progress.Store
	catalog    *catalog.Catalog
	events     store.EventRepo
	engine     *progression.Engine
	rewards    *rewards.Service
	rng        random.Source
	logger     *zap.Logger
	chatChance float64

	sessionID string
	startedAt time.Time
	loaded    progress.LoadResult

	progress *progress.UserProgress
	phase    Phase
	category category.ID
	question *catalog.Question
	options  []catalog.DisplayOption
	feedback *Feedback
	current  *Interlude
	queue    []Interlude

	// route is where play goes once the queue drains after a category
	// completion, when routed is set.
	route   Phase
	routed  bool
	streak  int
	saveErr error

	answered int
	correct  int
	points   int
}

// New loads the stored record and returns a controller in PhaseIdle, or in
// PhaseAllComplete when every category is already complete.
func New(ctx context.Context, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := opts.Rand
	if rng == nil {
		rng = random.New()
	}
	chance := opts.ChatChance
	if chance == 0 {
		chance = DefaultChatChance
	}

	c := &Controller{
		store:      opts.Store,
		catalog:    opts.Catalog,
		events:     opts.Events,
		rng:        rng,
		chatChance: chance,
		startedAt:  time.Now(),
	}
	c.sessionID = uuid.NewString()
	c.logger = logger.With(zap.String("session", c.sessionID))
	c.rewards = rewards.NewService(opts.Events, c.logger)
	c.engine = progression.NewEngine(opts.Catalog, c.rewards, rng)
	c.engine.SessionID = c.sessionID

	c.loaded = c.store.Load(ctx)
	c.progress = c.loaded.Progress
	c.phase = c.restPhase()
	c.logger.Info("session started",
		zap.Stringer("source", c.loaded.Source),
		zap.Int("level", c.progress.CurrentLevel),
		zap.Int("points", c.progress.TotalPoints))
	return c
}

// Accessors. The returned values must not be modified.

func (c *Controller) Phase() Phase { return c.phase }
func (c *Controller) Progress() *progress.UserProgress { return c.progress }
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }
func (c *Controller) Category() category.ID { return c.category }
func (c *Controller) Question() *catalog.Question { return c.question }
func (c *Controller) Options() []catalog.DisplayOption { return c.options }
func (c *Controller) Feedback() *Feedback { return c.feedback }
func (c *Controller) Interlude() *Interlude { return c.current }
func (c *Controller) Streak() int { return c.streak }
func (c *Controller) SessionID() string { return c.sessionID }
func (c *Controller) LoadSource() progress.Source { return c.loaded.Source }
func (c *Controller) Language() locale.Language { return c.progress.Settings.Language }
func (c *Controller) Theme() progress.Theme { return c.progress.Settings.Theme }
func (c *Controller) Awards() []rewards.Award { return c.rewards.SessionAwards }
func (c *Controller) SaveError() error { return c.saveErr }
func (c *Controller) Store() *progress.Store { return c.store }

// StartCategory begins play in cat. It is refused with ErrAllComplete once
// every category is complete.
func (c *Controller) StartCategory(ctx context.Context, cat category.ID) error {
	if c.progress.AllCategoriesComplete() {
		c.enter(PhaseAllComplete)
		return ErrAllComplete
	}
	if c.phase != PhaseIdle {
		return fmt.Errorf("%w: start category in %s", ErrInvalidPhase, c.phase)
	}
	if !cat.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}

	c.category = cat
	c.streak = 0
	c.queue = nil
	c.routed = false
	c.logger.Debug("category started", zap.String("category", string(cat)))
	c.advance(ctx)
	return nil
}

// Answer scores the option at idx, an index into the question's dataset
// options (DisplayOption.Index).
func (c *Controller) Answer(ctx context.Context, idx int) (*Feedback, error) {
	if c.phase != PhaseAnswering {
		return nil, fmt.Errorf("%w: answer in %s", ErrInvalidPhase, c.phase)
	}
	q := c.question
	if c.progress.IsAnswered(string(q.ID)) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAnswered, q.ID)
	}

	res, err := c.engine.Score(q, idx)
	if err != nil {
		return nil, err
	}
	c.engine.RecordAnswer(c.progress, q, res)

	fb := &Feedback{Question: q, Result: res}
	if res.Correct {
		if it, ok := c.engine.CheckSouvenirUnlock(ctx, c.progress, c.category); ok {
			fb.Souvenir = &it
		}
	}
	fb.LevelUp = c.engine.CheckLevelUp(c.progress)
	c.persist(ctx)
	c.appendAnswerEvent(ctx, q, res)

	c.answered++
	c.points += res.Points
	if res.Correct {
		c.correct++
		c.streak++
	}

	c.feedback = fb
	c.enter(PhaseFeedback)
	return fb, nil
}

// Continue leaves the feedback screen. Pending popups are queued in order:
// souvenir, level-up, chat.
func (c *Controller) Continue(ctx context.Context) error {
	if c.phase != PhaseFeedback {
		return fmt.Errorf("%w: continue in %s", ErrInvalidPhase, c.phase)
	}
	fb := c.feedback

	if fb.Souvenir != nil {
		c.queue = append(c.queue, Interlude{Kind: InterludeSouvenir, Item: *fb.Souvenir})
	}
	if fb.LevelUp.LeveledUp {
		c.queue = append(c.queue, Interlude{Kind: InterludeLevelUp, Level: fb.LevelUp.NewLevel})
	}
	if c.streak > 0 && c.streak%ChatEvery == 0 && c.rng.Float64() < c.chatChance {
		if line, ok := c.catalog.RandomChatFor(c.category, c.rng); ok {
			c.queue = append(c.queue, Interlude{Kind: InterludeChat, Chat: line})
		}
	}

	c.feedback = nil
	c.advance(ctx)
	return nil
}

// Dismiss closes the current popup and moves on.
func (c *Controller) Dismiss(ctx context.Context) error {
	if c.phase != PhaseInterlude {
		return fmt.Errorf("%w: dismiss in %s", ErrInvalidPhase, c.phase)
	}
	if c.current.Kind == InterludeChat {
		c.streak = 0
	}
	c.current = nil
	c.advance(ctx)
	return nil
}

// Leave abandons the current category and returns to category selection.
func (c *Controller) Leave() {
	c.question = nil
	c.options = nil
	c.feedback = nil
	c.current = nil
	c.queue = nil
	c.routed = false
	c.streak = 0
	c.enter(c.restPhase())
}

// advance shows the next queued popup, or takes the pending route, or
// fetches the next question, or runs completion handling.
func (c *Controller) advance(ctx context.Context) {
	if len(c.queue) > 0 {
		it := c.queue[0]
		c.queue = c.queue[1:]
		c.current = &it
		c.enter(PhaseInterlude)
		return
	}
	if c.routed {
		c.routed = false
		c.question = nil
		c.options = nil
		c.enter(c.route)
		return
	}

	if q, ok := c.catalog.NextUnanswered(c.category, c.progress); ok {
		c.question = q
		c.options = q.ShuffledOptions(c.rng)
		c.enter(PhaseAnswering)
		return
	}
	c.completeCategory(ctx)
}

func (c *Controller) completeCategory(ctx context.Context) {
	c.question = nil
	c.options = nil
	snack, ok := c.engine.GrantCategoryCompletionReward(ctx, c.progress, c.category)
	if !ok {
		c.enter(c.restPhase())
		return
	}

	c.persist(ctx)
	c.logger.Info("category complete",
		zap.String("category", string(c.category)),
		zap.String("snack", snack.ID),
		zap.Int("completed", len(c.progress.CompletedCategories)))
	c.queue = append(c.queue, Interlude{Kind: InterludeSnack, Item: snack})
	c.route = c.restPhase()
	c.routed = true
	c.advance(ctx)
}

// restPhase is where play rests between categories.
func (c *Controller) restPhase() Phase {
	if c.progress.AllCategoriesComplete() {
		return PhaseAllComplete
	}
	return PhaseIdle
}

func (c *Controller) enter(p Phase) {
	if p != c.phase {
		c.logger.Debug("phase", zap.Stringer("from", c.phase), zap.Stringer("to", p))
	}
	c.phase = p
}

// persist saves the record. Failures are logged and kept for display;
// the in-memory record stays authoritative.
func (c *Controller) persist(ctx context.Context) {
	c.saveErr = c.store.Save(ctx, c.progress)
	if c.saveErr != nil {
		c.logger.Warn("save progress", zap.Error(c.saveErr))
	}
}

func (c *Controller) appendAnswerEvent(ctx context.Context, q *catalog.Question, res progression.Result) {
	if c.events == nil {
		return
	}
	err := c.events.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID:  c.sessionID,
		QuestionID: string(q.ID),
		Category:   string(c.category),
		Outcome:    string(res.Outcome),
		Points:     res.Points,
		Correct:    res.Correct,
	})
	if err != nil {
		c.logger.Warn("append answer event", zap.Error(err))
	}
}

// SelectCharacter stores the guide character.
func (c *Controller) SelectCharacter(ctx context.Context, id string) error {
	ch, ok := progress.LookupCharacter(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCharacter, id)
	}
	if ch.Locked {
		return fmt.Errorf("%w: %q", ErrLockedCharacter, id)
	}
	c.progress.SelectedCharacter = &ch.ID
	c.persist(ctx)
	return nil
}

// SetLanguage changes the display language.
func (c *Controller) SetLanguage(ctx context.Context, lang locale.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("unknown language %q", lang)
	}
	c.progress.Settings.Language = lang
	c.persist(ctx)
	return nil
}

// ToggleLanguage switches between Japanese and English.
func (c *Controller) ToggleLanguage(ctx context.Context) {
	c.progress.Settings.Language = c.progress.Settings.Language.Other()
	c.persist(ctx)
}

// ToggleTheme switches between light and dark.
func (c *Controller) ToggleTheme(ctx context.Context) {
	c.progress.Settings.Theme = c.progress.Settings.Theme.Other()
	c.persist(ctx)
}

// Reset clears all stored data and starts over with a default record.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset storage: %w", err)
	}
	c.progress = progress.NewDefault(c.store.Defaults())
	c.rewards.ResetSession()
	c.saveErr = nil
	c.answered, c.correct, c.points = 0, 0, 0
	c.category = ""
	c.Leave()
	c.logger.Info("progress reset")
	return nil
}

// Restore replaces the record with the backup read from r. Nothing changes
// if the backup is rejected.
func (c *Controller) Restore(ctx context.Context, r io.Reader) error {
	p, err := c.store.Restore(ctx, r)
	if err != nil {
		return err
	}
	c.progress = p
	c.saveErr = nil
	c.Leave()
	return nil
}

// Close ends the session and returns its summary.
func (c *Controller) Close() Summary {
	s := c.Summary()
	c.logger.Info("session ended",
		zap.Duration("duration", s.Duration),
		zap.Int("answered", s.Answered),
		zap.Int("correct", s.Correct),
		zap.Int("awards", len(s.Awards)))
	return s
}
