package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"power_wizard/internal/catalog"
	"power_wizard/internal/estimator"
	"power_wizard/internal/logger"
	"power_wizard/internal/models"
	"power_wizard/internal/planfilter"
	"power_wizard/internal/repository"
	"power_wizard/internal/wizard"

	"github.com/google/uuid"
)

const (
	defaultEntryPoint = "direct"
	moveInDateLayout  = "2006-01-02"
)

type WizardService struct {
	sessions repository.SessionRepo
	events   repository.EventRepo
	catalog  *catalog.Catalog
	tokens   SessionTokens
	now      func() time.Time
	locks    *keyedMutex
	log      *logger.Logger
}

func NewWizardService(sessions repository.SessionRepo, events repository.EventRepo, cat *catalog.Catalog, tokens SessionTokens, now func() time.Time, log *logger.Logger) *WizardService {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WizardService{
		sessions: sessions,
		events:   events,
		catalog:  cat,
		tokens:   tokens,
		now:      now,
		locks:    newKeyedMutex(),
		log:      log,
	}
}

// live is a loaded session with its store and navigator rebuilt.
type live struct {
	sess    models.Session
	store   *wizard.Store
	nav     *wizard.Navigator
	pending []models.FunnelEvent
}

func (l *live) emit(typ string, step wizard.StepID, desc string, meta any) {
	l.pending = append(l.pending, models.FunnelEvent{
		SessionID:   l.sess.ID,
		Type:        typ,
		Step:        string(step),
		Description: desc,
		Metadata:    meta,
	})
}

// Start creates a session at the welcome step and issues its token.
func (s *WizardService) Start(ctx context.Context, entryPoint string) (StartResult, error) {
	entryPoint = strings.TrimSpace(entryPoint)
	if entryPoint == "" {
		entryPoint = defaultEntryPoint
	}
	now := s.now().UTC()
	store := wizard.NewStore(entryPoint, now)
	l := &live{
		sess:  models.Session{ID: uuid.NewString(), CreatedAt: now},
		store: store,
		nav:   wizard.NewNavigator(store, s.now),
	}
	if err := s.save(ctx, l); err != nil {
		return StartResult{}, err
	}

	token, exp, err := s.tokens.IssueToken(l.sess.ID)
	if err != nil {
		if derr := s.sessions.Delete(ctx, l.sess.ID); derr != nil {
			s.log.Warnw("session_cleanup_failed", "err", derr, "session_id", l.sess.ID)
		}
		return StartResult{}, fmt.Errorf("issue session token: %w", err)
	}

	l.emit(models.EventSessionStarted, wizard.StepWelcome, "Session started", map[string]any{"entry_point": entryPoint})
	s.flush(ctx, l)
	return StartResult{SessionView: viewOf(l), Token: token, TokenExpiresAt: exp}, nil
}

func (s *WizardService) Get(ctx context.Context, id string) (SessionView, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	return viewOf(l), nil
}

// Update shallow-merges p into the session state. Replacing the address with
// a different one clears its validation.
func (s *WizardService) Update(ctx context.Context, id string, p wizard.Partial) (SessionView, error) {
	if err := validatePartial(p); err != nil {
		return SessionView{}, err
	}
	l, err := s.mutate(ctx, id, func(l *live) error {
		if p.Address != nil {
			addr := *p.Address
			cur := l.store.State().Address
			addr.IsValidated = cur.IsValidated && sameAddress(cur, addr)
			p.Address = &addr
		}
		l.store.Update(p)
		s.rewindIfUnvalidated(l)
		return nil
	})
	if err != nil {
		return SessionView{}, err
	}
	return viewOf(l), nil
}

// Next advances when the current step is complete. A blocked move is
// reported in the result, not as an error.
func (s *WizardService) Next(ctx context.Context, id string) (StepResult, error) {
	var res StepResult
	l, err := s.mutate(ctx, id, func(l *live) error {
		from := l.nav.Current()
		tr, err := l.nav.Next()
		switch {
		case errors.Is(err, wizard.ErrStepBlocked):
			desc, _ := wizard.Lookup(from)
			res.Blocked, res.Hint = true, desc.Hint
			l.emit(models.EventStepBlocked, from, "Forward navigation blocked", nil)
			return nil
		case errors.Is(err, wizard.ErrNoNextStep):
			return fmt.Errorf("%w: %s is the last step", ErrNoMove, from)
		case err != nil:
			return err
		}

		typ, desc := models.EventStepCompleted, "Step completed"
		if tr.Revisited {
			typ, desc = models.EventStepRevisited, "Step completed again"
		}
		l.emit(typ, tr.From, desc, map[string]any{
			"to":         string(tr.To),
			"elapsed_ms": tr.Elapsed.Milliseconds(),
		})
		return nil
	})
	if err != nil {
		return StepResult{}, err
	}
	res.SessionView = viewOf(l)
	return res, nil
}

// Back moves to the previous step without validation.
func (s *WizardService) Back(ctx context.Context, id string) (StepResult, error) {
	l, err := s.mutate(ctx, id, func(l *live) error {
		tr, err := l.nav.Back()
		if errors.Is(err, wizard.ErrNoPreviousStep) {
			return fmt.Errorf("%w: %s is the first step", ErrNoMove, l.nav.Current())
		}
		if err != nil {
			return err
		}
		l.emit(models.EventStepBack, tr.From, "Went back", map[string]any{
			"to":         string(tr.To),
			"elapsed_ms": tr.Elapsed.Milliseconds(),
		})
		return nil
	})
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{SessionView: viewOf(l)}, nil
}

// GoTo jumps back to an earlier step. Jumping ahead is reported as blocked.
func (s *WizardService) GoTo(ctx context.Context, id string, step string) (StepResult, error) {
	target := wizard.StepID(step)
	if wizard.IndexOf(target) < 0 {
		return StepResult{}, fmt.Errorf("%w: unknown step %q", ErrValidation, step)
	}

	var res StepResult
	l, err := s.mutate(ctx, id, func(l *live) error {
		tr, err := l.nav.GoTo(target)
		if errors.Is(err, wizard.ErrStepBlocked) {
			res.Blocked, res.Hint = true, "Finish the current step before skipping ahead."
			l.emit(models.EventStepBlocked, l.nav.Current(), "Jump ahead blocked", map[string]any{"to": step})
			return nil
		}
		if err != nil {
			return err
		}
		if tr.From != tr.To {
			l.emit(models.EventStepBack, tr.From, "Jumped back", map[string]any{
				"to":         string(tr.To),
				"elapsed_ms": tr.Elapsed.Milliseconds(),
			})
		}
		return nil
	})
	if err != nil {
		return StepResult{}, err
	}
	res.SessionView = viewOf(l)
	return res, nil
}

// Reset starts the session over at the welcome step, keeping its id.
func (s *WizardService) Reset(ctx context.Context, id string) (SessionView, error) {
	l, err := s.mutate(ctx, id, func(l *live) error {
		from := l.nav.Current()
		l.store.Reset(s.now())
		l.nav.Reset()
		l.emit(models.EventWizardReset, from, "Wizard reset", nil)
		return nil
	})
	if err != nil {
		return SessionView{}, err
	}
	return viewOf(l), nil
}

// SelectPlan stores a fully populated selection for a catalog plan, priced at
// the session's estimated usage.
func (s *WizardService) SelectPlan(ctx context.Context, id, planID string) (SessionView, error) {
	plan, ok := s.catalog.ByID(planID)
	if !ok {
		return SessionView{}, ErrPlanNotFound
	}
	l, err := s.mutate(ctx, id, func(l *live) error {
		token := l.store.BeginSelection()
		sel := wizard.SelectionFor(plan, usageFor(l.store.State()))
		if !l.store.CommitSelection(token, sel) {
			return fmt.Errorf("selection of %s was superseded", planID)
		}
		l.emit(models.EventPlanSelected, l.nav.Current(), "Plan selected", map[string]any{
			"plan_id":                plan.ID,
			"provider":               plan.Provider,
			"estimated_monthly_bill": sel.EstimatedMonthlyBill,
		})
		return nil
	})
	if err != nil {
		return SessionView{}, err
	}
	return viewOf(l), nil
}

func (s *WizardService) ClearPlan(ctx context.Context, id string) (SessionView, error) {
	l, err := s.mutate(ctx, id, func(l *live) error {
		l.store.ClearSelection()
		return nil
	})
	if err != nil {
		return SessionView{}, err
	}
	return viewOf(l), nil
}

// ConfirmAddress records the outcome of the external address check.
func (s *WizardService) ConfirmAddress(ctx context.Context, id string, validated bool) (SessionView, error) {
	l, err := s.mutate(ctx, id, func(l *live) error {
		if validated && strings.TrimSpace(l.store.State().Address.Street) == "" {
			return fmt.Errorf("%w: no address to confirm", ErrValidation)
		}
		l.store.ConfirmAddress(validated)
		if validated {
			l.emit(models.EventAddressConfirmed, l.nav.Current(), "Address confirmed", nil)
		}
		s.rewindIfUnvalidated(l)
		return nil
	})
	if err != nil {
		return SessionView{}, err
	}
	return viewOf(l), nil
}

// rewindIfUnvalidated sends a session past address-confirmation back to it
// once the address lost its validation.
func (s *WizardService) rewindIfUnvalidated(l *live) {
	tr, ok := l.nav.RewindToAddressConfirmation()
	if !ok {
		return
	}
	l.emit(models.EventStepBack, tr.From, "Address changed, confirmation required", map[string]any{
		"to":         string(tr.To),
		"elapsed_ms": tr.Elapsed.Milliseconds(),
	})
}

// ----------- persistence helpers -----------

func (s *WizardService) load(ctx context.Context, id string) (*live, error) {
	sess, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	store := wizard.RestoreStore(sess.State, sess.SelectionToken)
	nav, err := wizard.RestoreNavigator(store, wizard.StepID(sess.Step), sess.StepEnteredAt, s.now)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	return &live{sess: sess, store: store, nav: nav}, nil
}

func (s *WizardService) save(ctx context.Context, l *live) error {
	l.sess.State = l.store.State()
	l.sess.Step = string(l.nav.Current())
	l.sess.StepEnteredAt = l.nav.EnteredAt().UTC()
	l.sess.SelectionToken = l.store.SelectionToken()
	l.sess.UpdatedAt = s.now().UTC()
	return s.sessions.Save(ctx, l.sess)
}

// mutate runs fn on the session under its lock, persists the result and then
// appends the funnel events fn emitted.
func (s *WizardService) mutate(ctx context.Context, id string, fn func(l *live) error) (*live, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(l); err != nil {
		return nil, err
	}
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	s.flush(ctx, l)
	return l, nil
}

// flush appends pending events. The funnel log is telemetry, so a failed
// append never fails the user's request.
func (s *WizardService) flush(ctx context.Context, l *live) {
	now := s.now().UTC()
	for _, e := range l.pending {
		e.EventID = uuid.NewString()
		e.OccurredAt = now
		if err := s.events.Append(ctx, e); err != nil {
			s.log.Warnw("funnel_append_failed", "err", err, "session_id", e.SessionID, "type", e.Type)
		}
	}
	l.pending = nil
}

func viewOf(l *live) SessionView {
	cur := l.nav.Current()
	desc, _ := wizard.Lookup(cur)
	return SessionView{
		Session: l.sess,
		Step: StepView{
			ID:         string(cur),
			Title:      desc.Title,
			Index:      wizard.IndexOf(cur),
			Total:      wizard.StepCount(),
			Progress:   l.nav.Progress(),
			CanProceed: l.nav.CanProceed(),
			CanGoBack:  desc.AllowBack,
		},
		EstimatedUsage: usageFor(l.sess.State),
	}
}

// usageFor estimates usage once the home profile is known and falls back to
// the preview usage before that.
func usageFor(st models.WizardState) int {
	if !st.PropertyType.Valid() || st.HomeProfile.SquareFootage <= 0 {
		return estimator.DefaultPreviewUsage
	}
	return estimator.EstimateUsage(st.HomeProfile, st.PropertyType)
}

func sameAddress(a, b models.Address) bool {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return norm(a.Street) == norm(b.Street) &&
		norm(a.City) == norm(b.City) &&
		norm(a.State) == norm(b.State) &&
		norm(a.Zip) == norm(b.Zip)
}

// validatePartial checks caller input at the service boundary.
func validatePartial(p wizard.Partial) error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: empty update", ErrValidation)
	}
	if p.PropertyType != nil && !p.PropertyType.Valid() {
		return fmt.Errorf("%w: unknown property type %q", ErrValidation, *p.PropertyType)
	}
	if hp := p.HomeProfile; hp != nil && (hp.SquareFootage < 0 || hp.Occupants < 0) {
		return fmt.Errorf("%w: square footage and occupants must not be negative", ErrValidation)
	}
	if pref := p.PlanPreferences; pref != nil {
		if pref.ContractTerm != nil {
			if _, ok := planfilter.TermLabel(*pref.ContractTerm); !ok {
				return fmt.Errorf("%w: unknown contract term %q", ErrValidation, *pref.ContractTerm)
			}
		}
		if pref.MaxRate != nil && *pref.MaxRate < 0 {
			return fmt.Errorf("%w: max rate must not be negative", ErrValidation)
		}
	}
	if p.MoveInDate != nil && *p.MoveInDate != "" {
		if _, err := time.Parse(moveInDateLayout, *p.MoveInDate); err != nil {
			return fmt.Errorf("%w: move-in date must be YYYY-MM-DD", ErrValidation)
		}
	}
	if pi := p.PersonalInfo; pi != nil && strings.TrimSpace(pi.Email) != "" {
		if _, err := mail.ParseAddress(pi.Email); err != nil {
			return fmt.Errorf("%w: invalid email", ErrValidation)
		}
	}
	return nil
}
