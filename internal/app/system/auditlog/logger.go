// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/wakaladigital/wakala/internal/app/store/audit"
	"github.com/wakaladigital/wakala/internal/app/system/auth"
	"github.com/wakaladigital/wakala/internal/domain/models"
	"go.uber.org/zap"
)

// Modes accepted by the audit_log setting.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// ValidMode reports whether m is a recognised audit mode.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// NeedsDB reports whether mode m writes to MongoDB.
func NeedsDB(m string) bool {
	return m == ModeAll || m == ModeDB
}

// Logger records user-initiated mutations and sign-ins.
// A nil *Logger is a valid no-op logger.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	mode   string
}

// New creates a new audit Logger. store may be nil when mode does not need it.
func New(store *audit.Store, zapLog *zap.Logger, mode string) *Logger {
	if !ValidMode(mode) {
		mode = ModeLog
	}
	return &Logger{store: store, zapLog: zapLog, mode: mode}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != 0 {
		fields = append(fields, zap.Int64("user_id", event.UserID))
	}
	if event.Username != "" {
		fields = append(fields, zap.String("username", event.Username))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the configured mode.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil || l.mode == ModeOff {
		return
	}

	if l.mode == ModeAll || l.mode == ModeLog {
		l.logToZap(event)
	}

	if NeedsDB(l.mode) {
		if l.store == nil {
			l.zapLog.Warn("audit store not configured; event dropped",
				zap.String("event_type", event.EventType))
			return
		}
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// activity builds an activity event for the signed-in user on r.
func activity(r *http.Request, eventType string, err error, details map[string]string) audit.Event {
	e := audit.Event{
		Category:  audit.CategoryActivity,
		EventType: eventType,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   err == nil,
		Details:   details,
	}
	if err != nil {
		e.FailureReason = err.Error()
	}
	if u, ok := auth.CurrentUser(r); ok {
		e.UserID = u.ID
		e.Username = u.Username
	}
	return e
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, user models.User) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    user.ID,
		Username:  user.Username,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// LoginFailed logs a rejected login attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, username, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		Username:      username,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
	})
}

// Logout logs a sign-out of the user on r.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	e := activity(r, audit.EventLogout, nil, nil)
	e.Category = audit.CategoryAuth
	l.Log(ctx, e)
}

// --- Activity Events ---

func (l *Logger) GroupCreated(ctx context.Context, r *http.Request, g models.SavingsGroup) {
	l.Log(ctx, activity(r, audit.EventGroupCreated, nil, map[string]string{
		"group_id": id(g.ID),
		"name":     g.Name,
		"tier":     strconv.Itoa(g.TierLevel),
	}))
}

// GroupJoined logs a join attempt; err is nil on success.
func (l *Logger) GroupJoined(ctx context.Context, r *http.Request, groupID int64, err error) {
	l.Log(ctx, activity(r, audit.EventGroupJoined, err, map[string]string{
		"group_id": id(groupID),
	}))
}

func (l *Logger) InvestmentCreated(ctx context.Context, r *http.Request, groupID int64, inv models.Investment) {
	l.Log(ctx, activity(r, audit.EventInvestmentCreated, nil, map[string]string{
		"group_id":        id(groupID),
		"investment_id":   id(inv.ID),
		"investment_type": string(inv.InvestmentType),
		"amount":          inv.Amount.String(),
	}))
}

func (l *Logger) ContributionRecorded(ctx context.Context, r *http.Request, groupID int64, c models.Contribution) {
	l.Log(ctx, activity(r, audit.EventContributionRecorded, nil, map[string]string{
		"group_id":         id(groupID),
		"contribution_id":  id(c.ID),
		"transaction_type": string(c.TransactionType),
		"amount":           c.Amount.String(),
	}))
}

func (l *Logger) LoanApplied(ctx context.Context, r *http.Request, loan models.Loan) {
	l.Log(ctx, activity(r, audit.EventLoanApplied, nil, map[string]string{
		"loan_id":       id(loan.ID),
		"amount":        loan.Amount.String(),
		"interest_rate": loan.InterestRate.String(),
	}))
}

// LoanStatusChanged logs a status transition request; err is nil on success.
func (l *Logger) LoanStatusChanged(ctx context.Context, r *http.Request, loanID int64, from, to models.LoanStatus, err error) {
	l.Log(ctx, activity(r, audit.EventLoanStatusChanged, err, map[string]string{
		"loan_id": id(loanID),
		"from":    string(from),
		"to":      string(to),
	}))
}
