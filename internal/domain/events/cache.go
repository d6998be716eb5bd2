package events

import "time"

type CatalogCache interface {
	GetCategories(userID string) ([]Category, bool)
	SetCategories(userID string, categories []Category, ttl time.Duration)
	GetProjects(userID string) ([]Project, bool)
	SetProjects(userID string, projects []Project, ttl time.Duration)
	DeleteByUserID(userID string)
}

type noopCatalogCache struct{}

func (noopCatalogCache) GetCategories(string) ([]Category, bool) {
	return nil, false
}

func (noopCatalogCache) SetCategories(string, []Category, time.Duration) {}

func (noopCatalogCache) GetProjects(string) ([]Project, bool) {
	return nil, false
}

func (noopCatalogCache) SetProjects(string, []Project, time.Duration) {}

func (noopCatalogCache) DeleteByUserID(string) {}
