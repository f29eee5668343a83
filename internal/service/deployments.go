package service

import (
	"context"
	"time"

	"power_wizard/internal/deploy"
)

// DeploymentService reads deployment status from the injected provider.
type DeploymentService struct {
	provider deploy.StatusProvider
	poller   *deploy.Poller
}

func NewDeploymentService(provider deploy.StatusProvider, interval time.Duration) *DeploymentService {
	return &DeploymentService{provider: provider, poller: deploy.NewPoller(provider, interval)}
}

func (s *DeploymentService) Status(ctx context.Context, id string) (deploy.Status, error) {
	return s.provider.GetStatus(ctx, id)
}

// Watch polls until the deployment finishes or ctx is canceled.
func (s *DeploymentService) Watch(ctx context.Context, id string, fn func(deploy.Status)) (deploy.Status, error) {
	return s.poller.Watch(ctx, id, fn)
}

func (s *DeploymentService) PollInterval() time.Duration { return s.poller.Interval() }
