package job

import (
	"context"
	"strings"

	"github.com/hibiken/asynq"

	"fundacion-portal-backend/internal/domains/wizard/repository"
	"fundacion-portal-backend/internal/domains/wizard/service"
	"fundacion-portal-backend/pkg/logger"
)

// TypeStagingSweep is the asynq task type for the periodic staging sweep.
const TypeStagingSweep = "wizard:staging_sweep"

// StagingLister is the slice of object storage the sweep needs.
type StagingLister interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	RemoveFolder(ctx context.Context, prefix string) error
}

// StagingSweepHandler reclaims staged uploads whose wizard session has
// expired. Sessions age out of redis on their TTL, but the objects they
// staged in minio do not, so a periodic sweep reconciles the two.
type StagingSweepHandler struct {
	sessions repository.RepositoryInterface
	storage  StagingLister
}

func NewStagingSweepHandler(sessions repository.RepositoryInterface, storage StagingLister) *StagingSweepHandler {
	return &StagingSweepHandler{sessions: sessions, storage: storage}
}

func (h *StagingSweepHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	keys, err := h.storage.ListKeys(ctx, service.StagingPrefix)
	if err != nil {
		logger.Error("staging sweep list failed", err)
		return err
	}

	seen := map[string]bool{}
	swept := 0
	for _, key := range keys {
		sessionID := sessionIDFromKey(key)
		if sessionID == "" || seen[sessionID] {
			continue
		}
		seen[sessionID] = true

		alive, err := h.sessions.Exists(ctx, sessionID)
		if err != nil {
			logger.Error("staging sweep session check failed", err, map[string]interface{}{"session": sessionID})
			continue
		}
		if alive {
			continue
		}

		folder := service.StagingPrefix + sessionID + "/"
		if err := h.storage.RemoveFolder(ctx, folder); err != nil {
			logger.Error("staging sweep removal failed", err, map[string]interface{}{"folder": folder})
			continue
		}
		swept++
	}

	logger.Info("staging sweep finished", map[string]interface{}{
		"sessions_seen": len(seen),
		"folders_swept": swept,
	})
	return nil
}

// sessionIDFromKey extracts the session id from "staging/<session>/...".
func sessionIDFromKey(key string) string {
	rest := strings.TrimPrefix(key, service.StagingPrefix)
	if rest == key {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i > 0 {
		return rest[:i]
	}
	return ""
}
