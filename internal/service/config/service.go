package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/config/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

// Service сервис политики записи организации
type Service struct {
	configRepo         ConfigRepository
	defaultGranularity int
	logger             Logger
}

// NewService создает новый экземпляр сервиса конфигурации.
// defaultGranularity используется для организаций без сохранённой политики.
func NewService(
	configRepo ConfigRepository,
	defaultGranularity int,
	logger Logger,
) *Service {
	return &Service{
		configRepo:         configRepo,
		defaultGranularity: defaultGranularity,
		logger:             logger,
	}
}

// Effective возвращает действующую политику организации из контекста.
// Если политика не сохранена, возвращаются значения по умолчанию.
func (s *Service) Effective(ctx context.Context) (*domain.SchedulingConfig, error) {
	orgID, err := tenant.Require(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	config, err := s.configRepo.Get(ctx)
	if err == nil {
		return config, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultSchedulingConfig(orgID, s.defaultGranularity), nil
	}
	if domain.KindOf(err) != nil {
		return nil, err
	}
	s.logger.Error("Effective: repository error for organization=%s: %v", orgID, err)
	return nil, fmt.Errorf("%w: Effective: %w", ErrStorageUnavailable, err)
}

// Get получает политику записи организации
func (s *Service) Get(ctx context.Context) (*models.ConfigResponse, error) {
	config, err := s.Effective(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomainConfig(config), nil
}

// Update обновляет политику записи.
// Поддерживает частичное обновление - обновляются только указанные поля.
func (s *Service) Update(ctx context.Context, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	if req == nil || req.IsEmpty() {
		return nil, fmt.Errorf("%w: at least one field must be provided", ErrInvalidInput)
	}

	// 1. Текущая политика (или значения по умолчанию)
	current, err := s.Effective(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Update: updating config for organization=%s", current.OrganizationID)

	// 2. Применяем обновления к копии и валидируем
	updated := *current
	req.ApplyToConfig(&updated)
	if err := updated.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for organization=%s: %v", current.OrganizationID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Сохраняем
	saved, err := s.configRepo.Upsert(ctx, &updated)
	if err != nil {
		if domain.KindOf(err) != nil {
			return nil, err
		}
		s.logger.Error("Update: repository error for organization=%s: %v", current.OrganizationID, err)
		return nil, fmt.Errorf("%w: Update: %w", ErrStorageUnavailable, err)
	}

	s.logger.Info("Update: successfully updated config for organization=%s", saved.OrganizationID)
	return models.FromDomainConfig(saved), nil
}

// Reset удаляет сохранённую политику, организация возвращается к значениям по умолчанию
func (s *Service) Reset(ctx context.Context) (*models.ConfigResponse, error) {
	err := s.configRepo.Delete(ctx)
	switch {
	case err == nil, errors.Is(err, domain.ErrNotFound):
	case domain.KindOf(err) != nil:
		return nil, err
	default:
		s.logger.Error("Reset: repository error: %v", err)
		return nil, fmt.Errorf("%w: Reset: %w", ErrStorageUnavailable, err)
	}

	return s.Get(ctx)
}
