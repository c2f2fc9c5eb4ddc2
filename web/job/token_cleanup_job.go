package job

import (
	"house-panel/logger"
	"house-panel/web/service"
)

// TokenCleanupJob nulls reset tokens past their expiry so stale rows do not
// linger. Expiry is already enforced at validation time; this is hygiene.
type TokenCleanupJob struct {
	tokenService service.TokenService
}

func NewTokenCleanupJob() *TokenCleanupJob {
	return &TokenCleanupJob{}
}

func (j *TokenCleanupJob) Run() {
	cleared, err := j.tokenService.ClearExpiredResetTokens()
	if err != nil {
		logger.Warning("clear expired reset tokens err:", err)
		return
	}
	if cleared > 0 {
		logger.Debugf("cleared %d expired reset tokens", cleared)
	}
}
