package achievements

import (
	"go.uber.org/zap"

	"github.com/abhisek/fluenz/internal/progress"
)

// Unlocker records unlocked achievements. progress.Store satisfies it.
type Unlocker interface {
	Snapshot() progress.Snapshot
	UnlockAchievement(id string) bool
}

// Service checks the rules table after each activity.
type Service struct {
	unlocker Unlocker
	logger   *zap.Logger

	// SessionUnlocks accumulates achievements unlocked during the current session.
	SessionUnlocks []Achievement
}

// NewService creates an achievement Service.
func NewService(unlocker Unlocker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{unlocker: unlocker, logger: logger}
}

// CheckAndUnlock unlocks every newly satisfied achievement and returns them.
func (s *Service) CheckAndUnlock() []Achievement {
	var unlocked []Achievement
	for _, a := range Evaluate(s.unlocker.Snapshot()) {
		if !s.unlocker.UnlockAchievement(a.ID) {
			continue
		}
		s.logger.Info("achievement unlocked",
			zap.String("id", a.ID),
			zap.String("tier", string(a.Tier)),
		)
		unlocked = append(unlocked, a)
	}
	s.SessionUnlocks = append(s.SessionUnlocks, unlocked...)
	return unlocked
}

// UnlockManual unlocks an achievement that has no automatic rule.
func (s *Service) UnlockManual(id string) (Achievement, bool) {
	a, ok := ByID(id)
	if !ok || !a.Manual() {
		return Achievement{}, false
	}
	if !s.unlocker.UnlockAchievement(id) {
		return a, false
	}
	s.SessionUnlocks = append(s.SessionUnlocks, a)
	return a, true
}

// ResetSession clears the session accumulator.
func (s *Service) ResetSession() {
	s.SessionUnlocks = nil
}
