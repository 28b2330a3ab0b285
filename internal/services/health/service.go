package health

// ProviderLister reports which AI providers are usable.
type ProviderLister interface {
	Providers() (available []string, disabled []string)
}

// Service encapsulates health-related checks.
type Service struct {
	librarySource string
	providers     ProviderLister
}

// ProviderStatus lists AI providers by availability.
type ProviderStatus struct {
	Available []string `json:"available"`
	Disabled  []string `json:"disabled"`
}

// Status is the health payload.
type Status struct {
	OK            bool           `json:"ok"`
	LibrarySource string         `json:"librarySource"`
	Providers     ProviderStatus `json:"providers"`
}

// NewService constructs a new health service.
func NewService(librarySource string, providers ProviderLister) *Service {
	return &Service{librarySource: librarySource, providers: providers}
}

// Status returns the health payload. The service is healthy while at least one
// provider is usable or no providers are configured at all.
func (s *Service) Status() Status {
	st := Status{
		OK:            true,
		LibrarySource: s.librarySource,
		Providers:     ProviderStatus{Available: []string{}, Disabled: []string{}},
	}
	if s.providers == nil {
		return st
	}
	available, disabled := s.providers.Providers()
	if available != nil {
		st.Providers.Available = available
	}
	if disabled != nil {
		st.Providers.Disabled = disabled
	}
	return st
}
