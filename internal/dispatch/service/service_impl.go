package service

import (
	"context"
	"fmt"
	"strings"

	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/clock"
	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/dispatch/domain"
	invoicedomain "github.com/Nairolf13/Frimousse-sub002/internal/invoice/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/invoice/format"
	"github.com/Nairolf13/Frimousse-sub002/internal/providers/email"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Cfg      config.Config
	GenID    *snowflake.Node
	Clock    clock.Clock
	Invoices invoicedomain.Service
	Mailer   email.Provider
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      config.Config
	genID    *snowflake.Node
	clock    clock.Clock
	invoices invoicedomain.Service
	mailer   email.Provider
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("dispatch"),
		cfg:      p.Cfg,
		genID:    p.GenID,
		clock:    p.Clock,
		invoices: p.Invoices,
		mailer:   p.Mailer,
	}
}

// Dispatch walks the four-state machine: skipped when sending is globally
// disabled, no_transport when the mailer is unconfigured, failed on missing
// contact / render error / transport error / timeout, sent otherwise. Every
// path appends one audit row before returning.
func (s *service) Dispatch(ctx context.Context, record *billingdomain.PaymentHistory, parent *directorydomain.Parent) (*domain.EmailLog, error) {
	subject := fmt.Sprintf("Invoice %s - %s", format.DocumentNumber(record.ID.String(), record.CreatedAt.Year()), format.Period(record.Year, record.Month))
	recipients := contactAddresses(parent)

	if !s.cfg.SendingEnabled {
		return s.append(ctx, record.ID, recipients, subject, domain.StatusSkipped, nil, nil)
	}
	if s.mailer == nil || !s.mailer.Configured() {
		return s.append(ctx, record.ID, recipients, subject, domain.StatusNoTransport, nil, nil)
	}
	if len(recipients) == 0 {
		entry, err := s.append(ctx, record.ID, recipients, subject, domain.StatusFailed, nil, domain.ErrMissingContact)
		if err != nil {
			return nil, err
		}
		return entry, domain.ErrMissingContact
	}

	rendered, err := s.invoices.Render(ctx, record, parent)
	if err != nil {
		entry, logErr := s.append(ctx, record.ID, recipients, subject, domain.StatusFailed, nil, err)
		if logErr != nil {
			return nil, logErr
		}
		return entry, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.DispatchTimeout)
	defer cancel()

	messageID, err := s.mailer.Send(sendCtx, email.Message{
		To:       recipients,
		Subject:  subject,
		TextBody: fmt.Sprintf("Please find attached your invoice for %s.", format.Period(record.Year, record.Month)),
		Attachments: []email.Attachment{{
			Filename:    rendered.Filename,
			ContentType: "application/pdf",
			Data:        rendered.Bytes,
		}},
	})
	if err != nil {
		sendErr := fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
		entry, logErr := s.append(ctx, record.ID, recipients, subject, domain.StatusFailed, nil, sendErr)
		if logErr != nil {
			return nil, logErr
		}
		return entry, sendErr
	}

	s.log.Info("invoice sent",
		zap.String("payment_history_id", record.ID.String()),
		zap.String("parent_id", parent.ID.String()),
		zap.String("message_id", messageID),
	)
	return s.append(ctx, record.ID, recipients, subject, domain.StatusSent, &messageID, nil)
}

func (s *service) HasSent(ctx context.Context, recordID snowflake.ID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.EmailLog{}).
		Where("payment_history_id = ? AND status = ?", recordID, domain.StatusSent).
		Count(&count).Error
	return count > 0, err
}

func (s *service) ListByRecord(ctx context.Context, recordID snowflake.ID) ([]domain.EmailLog, error) {
	var entries []domain.EmailLog
	err := s.db.WithContext(ctx).
		Where("payment_history_id = ?", recordID).
		Order("created_at asc, id asc").
		Find(&entries).Error
	return entries, err
}

// append inserts the audit row. Insert only; the log is never mutated.
func (s *service) append(ctx context.Context, recordID snowflake.ID, recipients []string, subject string, status domain.Status, messageID *string, cause error) (*domain.EmailLog, error) {
	entry := domain.EmailLog{
		ID:               s.genID.Generate(),
		PaymentHistoryID: recordID,
		Recipients:       datatypes.NewJSONSlice(recipients),
		RecipientsText:   strings.Join(recipients, ", "),
		Subject:          subject,
		MessageID:        messageID,
		Status:           status,
		CreatedAt:        s.clock.Now().UTC(),
	}
	if cause != nil {
		text := cause.Error()
		entry.ErrorText = &text
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("append email log: %w", err)
	}
	return &entry, nil
}

func contactAddresses(parent *directorydomain.Parent) []string {
	addr := strings.TrimSpace(parent.Email)
	if addr == "" {
		return nil
	}
	return []string{addr}
}
