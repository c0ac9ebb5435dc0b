package services

import (
	"context"

	"tasks-api/internal/repository"
)

type healthServiceImpl struct {
	repo repository.Repository
}

// NewHealthService creates a HealthService that pings repo
func NewHealthService(repo repository.Repository) HealthService {
	return &healthServiceImpl{repo: repo}
}

func (h *healthServiceImpl) Check(ctx context.Context) error {
	return h.repo.Ping(ctx)
}
