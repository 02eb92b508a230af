package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CatalogRepository каталог сотрудников и услуг в памяти
type CatalogRepository struct {
	store *Store
}

// PutStaff добавляет или заменяет сотрудника организации
func (r *CatalogRepository) PutStaff(organizationID string, staff *domain.StaffMember) error {
	if err := staff.Validate(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staff[organizationID] == nil {
		s.staff[organizationID] = make(map[string]*domain.StaffMember)
	}
	stored := cloneStaff(staff)
	stored.OrganizationID = organizationID
	s.staff[organizationID][staff.ID] = stored
	return nil
}

// PutService добавляет или заменяет услугу организации
func (r *CatalogRepository) PutService(organizationID string, service *domain.Service) error {
	if err := service.Validate(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.services[organizationID] == nil {
		s.services[organizationID] = make(map[string]*domain.Service)
	}
	stored := *service
	stored.OrganizationID = organizationID
	s.services[organizationID][service.ID] = &stored
	return nil
}

// GetStaff получает сотрудника вместе с рабочими часами
func (r *CatalogRepository) GetStaff(ctx context.Context, id string) (*domain.StaffMember, error) {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	staff, ok := r.store.staff[orgID][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStaffNotFound, id)
	}
	return cloneStaff(staff), nil
}

// ListStaff получает сотрудников организации, отсортированных по имени
func (r *CatalogRepository) ListStaff(ctx context.Context, filter domain.CatalogFilter) ([]*domain.StaffMember, error) {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	result := make([]*domain.StaffMember, 0, len(r.store.staff[orgID]))
	for _, staff := range r.store.staff[orgID] {
		if filter.ActiveOnly && !staff.IsActive {
			continue
		}
		result = append(result, cloneStaff(staff))
	}
	r.store.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetService получает услугу по ID
func (r *CatalogRepository) GetService(ctx context.Context, id string) (*domain.Service, error) {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	service, ok := r.store.services[orgID][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
	}
	copied := *service
	return &copied, nil
}

// ListServices получает услуги организации, отсортированные по имени
func (r *CatalogRepository) ListServices(ctx context.Context, filter domain.CatalogFilter) ([]*domain.Service, error) {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	result := make([]*domain.Service, 0, len(r.store.services[orgID]))
	for _, service := range r.store.services[orgID] {
		if filter.ActiveOnly && !service.IsActive {
			continue
		}
		copied := *service
		result = append(result, &copied)
	}
	r.store.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func cloneStaff(staff *domain.StaffMember) *domain.StaffMember {
	copied := *staff
	copied.WorkingHours = make(domain.WorkingHours, len(staff.WorkingHours))
	for day, intervals := range staff.WorkingHours {
		copied.WorkingHours[day] = append([]domain.TimeRange(nil), intervals...)
	}
	return &copied
}
