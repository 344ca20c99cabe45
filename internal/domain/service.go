package domain

// ServiceDefinition is a bookable service as seen by the engine
type ServiceDefinition struct {
	ID              int64
	TenantID        int64
	Name            string
	DurationMinutes int
}
