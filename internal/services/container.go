package services

import (
	"tasks-api/internal/clock"
	"tasks-api/internal/config"
	"tasks-api/internal/repository"
	"tasks-api/internal/validation"
)

// NewServiceContainer wires every service against one repository
func NewServiceContainer(repo repository.Repository, clk clock.Clock, cfg *config.Config) *ServiceContainer {
	taskValidator := validation.NewTaskValidator()
	if cfg != nil {
		taskValidator = validation.NewTaskValidatorWithConfig(cfg)
	}

	return &ServiceContainer{
		TaskService:   NewTaskService(repo, clk, taskValidator),
		HealthService: NewHealthService(repo),
	}
}
