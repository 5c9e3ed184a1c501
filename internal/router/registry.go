package router

import (
	"sync"
	"weak"

	"github.com/google/uuid"

	"github.com/tuananh/hyper-mcp/internal/hostcall"
)

// serviceRegistry holds a weak reference per live Service, so the
// resolver closures handed to a plugin's host functions can recover
// their owning Service without holding a strong reference that would
// keep plugin and service alive through each other indefinitely (a
// plugin's host functions are reachable from its *extism.Plugin, which
// the Service's own plugins map holds onto).
var serviceRegistry sync.Map // uuid.UUID -> weak.Pointer[Service]

func registerService(s *Service) {
	serviceRegistry.Store(s.id, weak.Make(s))
}

func unregisterService(id uuid.UUID) {
	serviceRegistry.Delete(id)
}

// resolver returns a hostcall.Resolver bound to id, used to build the
// host functions of every plugin this Service owns.
func resolver(id uuid.UUID) hostcall.Resolver {
	return func() (hostcall.Service, error) {
		v, ok := serviceRegistry.Load(id)
		if !ok {
			return nil, hostcall.ErrServiceGone
		}
		svc := v.(weak.Pointer[Service]).Value()
		if svc == nil {
			serviceRegistry.Delete(id)
			return nil, hostcall.ErrServiceGone
		}
		return svc, nil
	}
}
