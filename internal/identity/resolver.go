package identity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
)

// DisplayInfo is what the resolver knows about one actor.
type DisplayInfo struct {
	Email       string
	DisplayName *string
}

// Directory supplies the raw identity records. Backed by the user repository
// in production, replaced by fakes in tests.
type Directory interface {
	ListAll(ctx context.Context) ([]domain.User, error)
}

// Resolver maps opaque actor ids to human-readable labels. A fresh mapping is
// preloaded per report request; there is no cross-request cache.
type Resolver struct {
	directory Directory
	logger    *zap.Logger
}

// NewResolver constructs a resolver.
func NewResolver(directory Directory, logger *zap.Logger) *Resolver {
	return &Resolver{directory: directory, logger: logger}
}

// ResolveAll bulk-loads every known identity, avoiding N+1 lookups across an
// export. When the directory is unreachable it returns an empty mapping and
// the report proceeds with every actor rendered as unknown.
func (r *Resolver) ResolveAll(ctx context.Context) map[string]DisplayInfo {
	users, err := r.directory.ListAll(ctx)
	if err != nil {
		r.logger.Warn("identity directory unreachable; rendering actors as unknown", zap.Error(err))
		return map[string]DisplayInfo{}
	}

	infos := make(map[string]DisplayInfo, len(users))
	for _, u := range users {
		infos[u.ID] = DisplayInfo{Email: u.Email, DisplayName: u.DisplayName}
	}
	return infos
}

// DisplayLabel applies the lookup fallback chain: display name, then email,
// then a truncated-id marker for actors the directory does not know.
func DisplayLabel(infos map[string]DisplayInfo, id string) string {
	info, ok := infos[id]
	if !ok {
		short := id
		if len(short) > 8 {
			short = short[:8]
		}
		return fmt.Sprintf("Unknown (ID: %s...)", short)
	}
	if info.DisplayName != nil && *info.DisplayName != "" {
		return *info.DisplayName
	}
	if info.Email != "" {
		return info.Email
	}
	return "No Name/Email"
}
