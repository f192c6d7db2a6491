package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nhollis/docchat/internal/session"
)

// SessionSweepJob drops sessions idle past the inactivity timeout so
// abandoned conversations do not pile up in memory.
type SessionSweepJob struct {
	sessions *session.Store
}

func NewSessionSweepJob(sessions *session.Store) *SessionSweepJob {
	return &SessionSweepJob{sessions: sessions}
}

func (j *SessionSweepJob) Name() string {
	return "session_sweep"
}

func (j *SessionSweepJob) Run(ctx context.Context) error {
	if j.sessions == nil {
		return nil
	}
	removed := j.sessions.Sweep()
	if removed > 0 {
		logutil.GetLogger(ctx).Info("expired sessions removed", zap.Int("count", removed))
	}
	return nil
}
