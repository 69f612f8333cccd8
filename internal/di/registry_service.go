package di

import (
	"github.com/samber/do/v2"

	"github.com/canberks/riotbroker/internal/broker"
)

// RegistryService wraps the process-wide live-connection registry.
type RegistryService struct {
	Registry *broker.Registry
}

// NewRegistry creates the connection registry. There is exactly one per
// process: every listener and the observability handler share it.
func NewRegistry(_ do.Injector) (*RegistryService, error) {
	return &RegistryService{Registry: broker.NewRegistry()}, nil
}
