package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/gateway"
	"github.com/rentstack/pmp/jobs"
	"github.com/rentstack/pmp/lib/security"
	"github.com/rentstack/pmp/lib/tokens"
	"github.com/rentstack/pmp/mailer"
	"github.com/rentstack/pmp/rabbitmq"
)

type PmpService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	Gateway        gateway.PaymentClient
	Mailer         mailer.Mailer
	JobsClient     *jobs.Client
	RabbitMQClient rabbitmq.Client
}

// ListResult is the envelope every paginated list endpoint returns.
type ListResult struct {
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Items interface{} `json:"items"`
}

func (svc *PmpService) GenerateToken(ctx context.Context, email, password, inRefreshToken string) (accessToken, refreshToken string, err error) {
	var user *models.User

	switch {
	case email != "" || password != "":
		{
			user, err = svc.FindUserByEmail(ctx, email)
			if err != nil {
				svc.LogSecurityEvent(ctx, nil, common.SecurityEventLoginFailed, fmt.Sprintf("unknown email %s", email))
				return "", "", fmt.Errorf("bad auth")
			}
			if !security.VerifyPassword(user.Password, password) {
				svc.LogSecurityEvent(ctx, user, common.SecurityEventLoginFailed, "wrong password")
				return "", "", fmt.Errorf("bad auth")
			}
		}
	case inRefreshToken != "":
		{
			userId, err := tokens.ParseToken(svc.Config.JWTSecret, inRefreshToken, true)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
			user, err = svc.FindUser(ctx, userId)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
		}
	default:
		{
			return "", "", fmt.Errorf("email and password or refresh token is required")
		}
	}

	if !user.IsActive {
		return "", "", ErrAccountDeactivated
	}

	// Staff ride on their landlord's plan: nobody signs in once it lapses.
	if user.LandlordID != uuid.Nil {
		active, err := svc.SubscriptionActive(ctx, user.LandlordID, time.Now())
		if err != nil {
			return "", "", err
		}
		if !active {
			svc.LogSecurityEvent(ctx, user, common.SecurityEventLoginFailed, "subscription expired")
			return "", "", ErrSubscriptionExpired
		}
	}

	accessToken, err = tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, user)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = tokens.GenerateRefreshToken(svc.Config.JWTSecret, svc.Config.JWTRefreshTokenExpiry, user)
	if err != nil {
		return "", "", err
	}
	svc.LogSecurityEvent(ctx, user, common.SecurityEventLoginSuccess, "")
	return accessToken, refreshToken, nil
}

// sendEmail renders nothing; the body is already rendered HTML. Mail is
// queued for background delivery when a job client is wired, otherwise
// sent inline (one-shot commands, tests).
func (svc *PmpService) sendEmail(ctx context.Context, to, subject, htmlBody string) {
	if to == "" {
		return
	}
	if svc.JobsClient != nil {
		err := svc.JobsClient.EnqueueSendEmail(ctx, jobs.SendEmailPayload{To: to, Subject: subject, Body: htmlBody})
		if err != nil {
			svc.Logger.Errorf("Failed to enqueue mail to %s: %v", to, err)
		}
		return
	}
	if svc.Mailer == nil {
		return
	}
	if err := svc.Mailer.Send(ctx, to, subject, htmlBody); err != nil {
		svc.Logger.Errorf("Failed to send mail to %s: %v", to, err)
	}
}

// publishEvent is a no-op when rabbitmq is not configured.
func (svc *PmpService) publishEvent(ctx context.Context, routingKey string, payload interface{}) {
	if svc.RabbitMQClient == nil {
		return
	}
	if err := svc.RabbitMQClient.PublishEvent(ctx, routingKey, payload); err != nil {
		svc.Logger.Errorf("Failed to publish %s event: %v", routingKey, err)
	}
}
