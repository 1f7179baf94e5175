package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/mailer"
)

func (svc *PmpService) CreateSupportTicket(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error) {
	if ticket.Status == "" {
		ticket.Status = common.TicketStatusOpen
	}
	_, err := svc.DB.NewInsert().Model(ticket).Exec(ctx)
	if err != nil {
		return nil, err
	}

	if user, err := svc.FindUser(ctx, ticket.UserID); err == nil {
		body, rerr := mailer.RenderTemplate("ticket_created.html", map[string]interface{}{
			"Name":    user.FullName(),
			"Subject": ticket.Subject,
		})
		if rerr != nil {
			svc.Logger.Errorf("Failed to render ticket mail for %s: %v", ticket.ID, rerr)
		} else {
			svc.sendEmail(ctx, user.Email, fmt.Sprintf("Support ticket received: %s", ticket.Subject), body)
		}
	}
	return ticket, nil
}

func (svc *PmpService) FindSupportTicket(ctx context.Context, ticketId uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket

	err := svc.DB.NewSelect().Model(&ticket).
		Relation("User").
		Where("support_ticket.id = ?", ticketId).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (svc *PmpService) SupportTicketsFor(ctx context.Context, landlordId uuid.UUID, status string, page, size int) (*ListResult, error) {
	tickets := []models.SupportTicket{}

	query := svc.DB.NewSelect().Model(&tickets)
	if landlordId != uuid.Nil {
		query.Where("landlord_id = ?", landlordId)
	}
	if status != "" {
		query.Where("status = ?", status)
	}
	total, err := query.OrderExpr("created_at DESC").Limit(size).Offset((page - 1) * size).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Page: page, Size: size, Items: tickets}, nil
}

func (svc *PmpService) UpdateSupportTicketStatus(ctx context.Context, ticketId uuid.UUID, status string) (*models.SupportTicket, error) {
	ticket, err := svc.FindSupportTicket(ctx, ticketId)
	if err != nil {
		return nil, err
	}
	ticket.Status = status
	_, err = svc.DB.NewUpdate().Model(ticket).
		Column("status", "updated_at").
		WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
