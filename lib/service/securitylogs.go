package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
)

type clientInfoKey struct{}

// ClientInfo carries the request's origin into security log entries.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// WithClientInfo attaches the caller's address and user agent to the
// context so every security log written along the request records them.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

func clientInfoFrom(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}

// LogSecurityEvent records an auth-related event. Failures are logged
// and swallowed so auditing never breaks the flow being audited.
func (svc *PmpService) LogSecurityEvent(ctx context.Context, user *models.User, event, detail string) {
	info := clientInfoFrom(ctx)
	entry := &models.SecurityLog{
		Event:     event,
		Detail:    detail,
		IP:        info.IP,
		UserAgent: info.UserAgent,
	}
	if user != nil {
		entry.UserID = user.ID
	}
	if _, err := svc.DB.NewInsert().Model(entry).Exec(ctx); err != nil {
		svc.Logger.Errorf("Failed to write security log %s: %v", event, err)
	}
}

// Logout only audits: tokens are stateless JWTs, so the entry is the
// record that the session ended on purpose.
func (svc *PmpService) Logout(ctx context.Context, user *models.User) {
	svc.LogSecurityEvent(ctx, user, common.SecurityEventLogout, "")
}

func (svc *PmpService) SecurityLogsFor(ctx context.Context, userId uuid.UUID, page, size int) (*ListResult, error) {
	logs := []models.SecurityLog{}

	query := svc.DB.NewSelect().Model(&logs)
	if userId != uuid.Nil {
		query.Where("user_id = ?", userId)
	}
	total, err := query.OrderExpr("created_at DESC").Limit(size).Offset((page - 1) * size).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Page: page, Size: size, Items: logs}, nil
}
