package service

import (
	"context"
	"errors"
	"time"

	"power_wizard/internal/catalog"
	"power_wizard/internal/deploy"
	"power_wizard/internal/logger"
	"power_wizard/internal/models"
	"power_wizard/internal/repository"
	"power_wizard/internal/wizard"
)

var (
	ErrSessionNotFound = repository.ErrSessionNotFound
	ErrPlanNotFound    = errors.New("plan not found")
	// ErrValidation marks bad caller input; wrapped with the detail.
	ErrValidation = errors.New("validation failed")
	// ErrNoMove is returned when next/back has nowhere to go.
	ErrNoMove = errors.New("no step in that direction")
)

// Wizard drives one sign-up session through the ordered steps.
type Wizard interface {
	Start(ctx context.Context, entryPoint string) (StartResult, error)
	Get(ctx context.Context, id string) (SessionView, error)
	Update(ctx context.Context, id string, p wizard.Partial) (SessionView, error)
	Next(ctx context.Context, id string) (StepResult, error)
	Back(ctx context.Context, id string) (StepResult, error)
	GoTo(ctx context.Context, id string, step string) (StepResult, error)
	Reset(ctx context.Context, id string) (SessionView, error)
	SelectPlan(ctx context.Context, id, planID string) (SessionView, error)
	ClearPlan(ctx context.Context, id string) (SessionView, error)
	ConfirmAddress(ctx context.Context, id string, validated bool) (SessionView, error)
}

// Plans is the comparison surface: filtered lists, top three and side by side.
type Plans interface {
	Compare(ctx context.Context, sessionID string, q ComparisonQuery) (Comparison, error)
	Browse(ctx context.Context, q CatalogQuery) (Comparison, error)
	SideBySide(ctx context.Context, ids []string, usage int) ([]PlanQuote, error)
	Estimate(profile models.HomeProfile, pt models.PropertyType) Estimate
}

// Funnel exposes the append-only funnel log.
type Funnel interface {
	List(ctx context.Context, f FunnelFilter) ([]models.FunnelEvent, error)
	Summary(ctx context.Context, from, to time.Time) ([]models.StepSummary, error)
}

// Experiments assigns A/B variants.
type Experiments interface {
	Assign(ctx context.Context, visitorID, testID string) (string, error)
}

// SessionTokens issues and verifies the bearer tokens that bind a client to a session.
type SessionTokens interface {
	IssueToken(sessionID string) (string, time.Time, error)
	ParseToken(token string) (string, error)
}

// Deployments reports deployment status.
type Deployments interface {
	Status(ctx context.Context, id string) (deploy.Status, error)
	Watch(ctx context.Context, id string, fn func(deploy.Status)) (deploy.Status, error)
	PollInterval() time.Duration
}

// Sweeper runs the background loop that expires sessions.
// Stop via context cancellation for graceful shutdown.
type Sweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Wizard
	Plans
	Funnel
	Experiments
	SessionTokens
	Deployments
	Sweeper
}

// Deps carries everything NewService needs besides the repositories.
type Deps struct {
	Catalog      *catalog.Catalog
	TokenSecret  string
	TokenTTL     time.Duration
	Deploy       deploy.StatusProvider
	PollInterval time.Duration
	Sweeper      Sweeper
	Now          func() time.Time
	Rand         func() float64 // [0,1); used for variant assignment
	Log          *logger.Logger
}

// NewService wires repository layer into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sweeper == nil {
		deps.Sweeper = noopSweeper{}
	}
	tokens := NewTokenService(deps.TokenSecret, deps.TokenTTL, deps.Now)
	plans := NewPlansService(deps.Catalog, repos.Sessions)
	return &Service{
		Wizard:        NewWizardService(repos.Sessions, repos.Events, deps.Catalog, tokens, deps.Now, deps.Log),
		Plans:         plans,
		Funnel:        NewFunnelService(repos.Events),
		Experiments:   NewExperimentService(repos.Variants, deps.Rand, deps.Now),
		SessionTokens: tokens,
		Deployments:   NewDeploymentService(deps.Deploy, deps.PollInterval),
		Sweeper:       deps.Sweeper,
	}
}

// noopSweeper is used when the session store expires entries itself (redis).
type noopSweeper struct{}

func (noopSweeper) Run(ctx context.Context, _ time.Duration) { <-ctx.Done() }
