package commands

import (
	"context"

	"todoctl/internal/auth"
	"todoctl/internal/config"
	"todoctl/internal/service"
	"todoctl/internal/session"
)

// resolveUserID returns the account id task and chat paths are scoped to:
// the cached id when present, otherwise a "who am I" probe.
func resolveUserID(ctx context.Context, cfg *config.Config, svc service.Service) (string, error) {
	mgr := session.NewManager(svc, auth.NewStore(cfg))
	return mgr.UserID(ctx)
}
