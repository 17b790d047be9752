package services

// ServiceManager groups the services the HTTP layer depends on.
type ServiceManager interface {
	Sessions() SessionService
	Catalog() CatalogService
	History() HistoryService
}

type serviceManager struct {
	sessions SessionService
	catalog  CatalogService
	history  HistoryService
}

func NewServiceManager(sessions SessionService, catalog CatalogService, history HistoryService) ServiceManager {
	return &serviceManager{
		sessions: sessions,
		catalog:  catalog,
		history:  history,
	}
}

func (m *serviceManager) Sessions() SessionService { return m.sessions }
func (m *serviceManager) Catalog() CatalogService   { return m.catalog }
func (m *serviceManager) History() HistoryService   { return m.history }
