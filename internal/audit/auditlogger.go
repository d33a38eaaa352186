package audit

import (
	"time"

	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/sirupsen/logrus"
)

const (
	EventLogin            = "login"
	EventFailedLogin      = "failed_login"
	EventLogout           = "logout"
	EventOwnershipDenied  = "ownership_denied"
	EventAnonymousRefused = "anonymous_refused"
	EventDeletion         = "deletion"
)

// AuditLogger provides structured audit logging for security events
type AuditLogger struct {
	logger *logrus.Logger
	now    func() time.Time
}

// NewAuditLogger creates an audit logger writing to logger, or to the process
// logger when logger is nil.
func NewAuditLogger(logger *logrus.Logger) *AuditLogger {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &AuditLogger{
		logger: logger,
		now:    time.Now,
	}
}

// LogLogin logs a completed Twitch login.
func (al *AuditLogger) LogLogin(streamerID, handle, ipAddress, userAgent string) {
	al.record(logrus.InfoLevel, "Streamer login", logrus.Fields{
		"event_type":  EventLogin,
		"streamer_id": streamerID,
		"handle":      handle,
		"ip_address":  ipAddress,
		"user_agent":  userAgent,
	})
}

// LogFailedLogin logs an OAuth callback that did not produce a session.
func (al *AuditLogger) LogFailedLogin(reason, ipAddress, userAgent string) {
	al.record(logrus.WarnLevel, "Failed login attempt", logrus.Fields{
		"event_type": EventFailedLogin,
		"reason":     reason,
		"ip_address": ipAddress,
		"user_agent": userAgent,
	})
}

// LogLogout logs events
func (al *AuditLogger) LogLogout(streamerID, ipAddress string) {
	al.record(logrus.InfoLevel, "Streamer logout", logrus.Fields{
		"event_type":  EventLogout,
		"streamer_id": streamerID,
		"ip_address":  ipAddress,
	})
}

// LogOwnershipDenied logs a session that tried to change a row it does not own.
func (al *AuditLogger) LogOwnershipDenied(streamerID, method, path, ipAddress string) {
	al.record(logrus.WarnLevel, "Ownership check failed", logrus.Fields{
		"event_type":  EventOwnershipDenied,
		"streamer_id": streamerID,
		"method":      method,
		"path":        path,
		"ip_address":  ipAddress,
	})
}

// LogAnonymousRefused logs a mutation attempted without a session.
func (al *AuditLogger) LogAnonymousRefused(method, path, ipAddress string) {
	al.record(logrus.WarnLevel, "Rejected anonymous mutation", logrus.Fields{
		"event_type": EventAnonymousRefused,
		"method":     method,
		"path":       path,
		"ip_address": ipAddress,
	})
}

// LogDeletion logs a successful delete.
func (al *AuditLogger) LogDeletion(streamerID, path, ipAddress string) {
	al.record(logrus.InfoLevel, "Resource deleted", logrus.Fields{
		"event_type":  EventDeletion,
		"streamer_id": streamerID,
		"path":        path,
		"ip_address":  ipAddress,
	})
}

func (al *AuditLogger) record(level logrus.Level, message string, fields logrus.Fields) {
	fields["audit"] = true
	fields["timestamp"] = al.now().UTC()
	al.logger.WithFields(fields).Log(level, message)
}
