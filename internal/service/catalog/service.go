package catalog

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// Service сервис чтения каталога для мастера записи
type Service struct {
	catalog CatalogReader
	logger  Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(catalog CatalogReader, logger Logger) *Service {
	return &Service{
		catalog: catalog,
		logger:  logger,
	}
}

// ListStaff получает сотрудников организации
func (s *Service) ListStaff(ctx context.Context, activeOnly bool) (*models.StaffListResponse, error) {
	staff, err := s.catalog.ListStaff(ctx, domain.CatalogFilter{ActiveOnly: activeOnly})
	if err != nil {
		return nil, s.repositoryError("ListStaff", err)
	}

	s.logger.Info("ListStaff: fetched %d staff members (activeOnly=%t)", len(staff), activeOnly)
	return models.FromDomainStaffList(staff), nil
}

// ListServices получает услуги организации
func (s *Service) ListServices(ctx context.Context, activeOnly bool) (*models.ServiceListResponse, error) {
	services, err := s.catalog.ListServices(ctx, domain.CatalogFilter{ActiveOnly: activeOnly})
	if err != nil {
		return nil, s.repositoryError("ListServices", err)
	}

	s.logger.Info("ListServices: fetched %d services (activeOnly=%t)", len(services), activeOnly)
	return models.FromDomainServiceList(services), nil
}

func (s *Service) repositoryError(op string, err error) error {
	if domain.KindOf(err) != nil {
		return err
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
