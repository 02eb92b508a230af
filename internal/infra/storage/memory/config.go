package memory

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ConfigRepository политики записи организаций в памяти
type ConfigRepository struct {
	store *Store
}

// Get получает политику организации из контекста
func (r *ConfigRepository) Get(ctx context.Context) (*domain.SchedulingConfig, error) {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	config, ok := r.store.configs[orgID]
	if !ok {
		return nil, ErrConfigNotFound
	}
	copied := *config
	return &copied, nil
}

// Upsert создает или перезаписывает политику организации
func (r *ConfigRepository) Upsert(ctx context.Context, config *domain.SchedulingConfig) (*domain.SchedulingConfig, error) {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.configs[orgID]
	if err := recordUndo(ctx, func() {
		if existed {
			s.configs[orgID] = previous
		} else {
			delete(s.configs, orgID)
		}
	}); err != nil {
		return nil, err
	}

	now := s.now()
	saved := *config
	saved.OrganizationID = orgID
	saved.CreatedAt = now
	if existed {
		saved.CreatedAt = previous.CreatedAt
	}
	saved.UpdatedAt = now
	s.configs[orgID] = &saved

	result := saved
	return &result, nil
}

// Delete удаляет политику организации
func (r *ConfigRepository) Delete(ctx context.Context) error {
	orgID, err := requireOrg(ctx)
	if err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.configs[orgID]
	if !ok {
		return ErrConfigNotFound
	}
	if err := recordUndo(ctx, func() { s.configs[orgID] = previous }); err != nil {
		return err
	}
	delete(s.configs, orgID)
	return nil
}
