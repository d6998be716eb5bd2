package inmemory

import (
	"sync"
	"time"

	eventsdomain "eventboard-go/internal/domain/events"
)

// CatalogCache keeps each user's categories and projects for a TTL.
type CatalogCache struct {
	mu    sync.RWMutex
	items map[string]catalogItem
	now   func() time.Time
}

type catalogItem struct {
	categories          []eventsdomain.Category
	categoriesExpiresAt time.Time
	projects            []eventsdomain.Project
	projectsExpiresAt   time.Time
}

func NewCatalogCache() *CatalogCache {
	return &CatalogCache{
		items: make(map[string]catalogItem),
		now:   time.Now,
	}
}

func (c *CatalogCache) GetCategories(userID string) ([]eventsdomain.Category, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok || item.categories == nil || !item.categoriesExpiresAt.After(now) {
		return nil, false
	}
	return cloneSlice(item.categories), true
}

func (c *CatalogCache) SetCategories(userID string, categories []eventsdomain.Category, ttl time.Duration) {
	if ttl <= 0 {
		c.DeleteByUserID(userID)
		return
	}
	if categories == nil {
		categories = []eventsdomain.Category{}
	}

	c.mu.Lock()
	item := c.items[userID]
	item.categories = cloneSlice(categories)
	item.categoriesExpiresAt = c.now().Add(ttl)
	c.items[userID] = item
	c.mu.Unlock()
}

func (c *CatalogCache) GetProjects(userID string) ([]eventsdomain.Project, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok || item.projects == nil || !item.projectsExpiresAt.After(now) {
		return nil, false
	}
	return cloneSlice(item.projects), true
}

func (c *CatalogCache) SetProjects(userID string, projects []eventsdomain.Project, ttl time.Duration) {
	if ttl <= 0 {
		c.DeleteByUserID(userID)
		return
	}
	if projects == nil {
		projects = []eventsdomain.Project{}
	}

	c.mu.Lock()
	item := c.items[userID]
	item.projects = cloneSlice(projects)
	item.projectsExpiresAt = c.now().Add(ttl)
	c.items[userID] = item
	c.mu.Unlock()
}

func (c *CatalogCache) DeleteByUserID(userID string) {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
}

func cloneSlice[T any](items []T) []T {
	cloned := make([]T, len(items))
	copy(cloned, items)
	return cloned
}
