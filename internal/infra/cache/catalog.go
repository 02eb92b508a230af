package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

// CatalogReader источник каталога, который оборачивает кеш
type CatalogReader interface {
	GetStaff(ctx context.Context, id string) (*domain.StaffMember, error)
	ListStaff(ctx context.Context, filter domain.CatalogFilter) ([]*domain.StaffMember, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
	ListServices(ctx context.Context, filter domain.CatalogFilter) ([]*domain.Service, error)
}

// Catalog кеширует чтения каталога по ключу организация+сущность.
// Ошибки (в том числе NotFound) не кешируются. Инвалидация только по TTL:
// каталог для ядра записи неизменяем.
type Catalog struct {
	next  CatalogReader
	cache *gocache.Cache
}

// NewCatalog создает кеш каталога
func NewCatalog(next CatalogReader, ttl, cleanupInterval time.Duration) *Catalog {
	return &Catalog{
		next:  next,
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// GetStaff возвращает сотрудника из кеша или источника
func (c *Catalog) GetStaff(ctx context.Context, id string) (*domain.StaffMember, error) {
	key, ok := cacheKey(ctx, "staff", id)
	if !ok {
		return c.next.GetStaff(ctx, id)
	}
	if cached, found := c.cache.Get(key); found {
		return cached.(*domain.StaffMember), nil
	}

	staff, err := c.next.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, staff)
	return staff, nil
}

// ListStaff возвращает список сотрудников из кеша или источника
func (c *Catalog) ListStaff(ctx context.Context, filter domain.CatalogFilter) ([]*domain.StaffMember, error) {
	key, ok := cacheKey(ctx, "staff-list", fmt.Sprintf("active=%t", filter.ActiveOnly))
	if !ok {
		return c.next.ListStaff(ctx, filter)
	}
	if cached, found := c.cache.Get(key); found {
		return cached.([]*domain.StaffMember), nil
	}

	staff, err := c.next.ListStaff(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, staff)
	return staff, nil
}

// GetService возвращает услугу из кеша или источника
func (c *Catalog) GetService(ctx context.Context, id string) (*domain.Service, error) {
	key, ok := cacheKey(ctx, "service", id)
	if !ok {
		return c.next.GetService(ctx, id)
	}
	if cached, found := c.cache.Get(key); found {
		return cached.(*domain.Service), nil
	}

	service, err := c.next.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, service)
	return service, nil
}

// ListServices возвращает список услуг из кеша или источника
func (c *Catalog) ListServices(ctx context.Context, filter domain.CatalogFilter) ([]*domain.Service, error) {
	key, ok := cacheKey(ctx, "service-list", fmt.Sprintf("active=%t", filter.ActiveOnly))
	if !ok {
		return c.next.ListServices(ctx, filter)
	}
	if cached, found := c.cache.Get(key); found {
		return cached.([]*domain.Service), nil
	}

	services, err := c.next.ListServices(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, services)
	return services, nil
}

// Flush очищает кеш целиком
func (c *Catalog) Flush() {
	c.cache.Flush()
}

// без организации в контексте кеш не используется: ошибку вернёт источник
func cacheKey(ctx context.Context, kind, id string) (string, bool) {
	orgID, ok := tenant.FromContext(ctx)
	if !ok {
		return "", false
	}
	return orgID + "|" + kind + "|" + id, true
}
