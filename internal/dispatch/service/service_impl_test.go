package service

import (
	"context"
	"errors"
	"testing"
	"time"

	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/clock"
	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/dispatch/domain"
	invoicedomain "github.com/Nairolf13/Frimousse-sub002/internal/invoice/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/providers/email"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mailerStub struct {
	configured bool
	err        error
	messageID  string
	sent       []email.Message
}

func (m *mailerStub) Send(ctx context.Context, msg email.Message) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return m.messageID, nil
}

func (m *mailerStub) Configured() bool { return m.configured }

type invoiceStub struct {
	err error
}

func (s *invoiceStub) Render(ctx context.Context, record *billingdomain.PaymentHistory, parent *directorydomain.Parent) (*invoicedomain.Rendered, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &invoicedomain.Rendered{
		Number:   "FA-2025-190358",
		Filename: "FA-2025-190358.pdf",
		Bytes:    []byte("%PDF-1.7 stub"),
	}, nil
}

func (s *invoiceStub) RenderByID(ctx context.Context, recordID snowflake.ID) (*invoicedomain.Rendered, error) {
	return s.Render(ctx, nil, nil)
}

type dispatchFixture struct {
	svc    domain.Service
	db     *gorm.DB
	mailer *mailerStub
	record *billingdomain.PaymentHistory
	parent *directorydomain.Parent
}

func setupDispatch(t *testing.T, cfg config.Config, mailer *mailerStub, invoices invoicedomain.Service) *dispatchFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.EmailLog{}))

	node, _ := snowflake.NewNode(1)
	svc := NewService(ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		Cfg:      cfg,
		GenID:    node,
		Clock:    clock.NewFakeClock(time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC)),
		Invoices: invoices,
		Mailer:   mailer,
	})

	total, _ := decimal.NewFromString("250.00")
	return &dispatchFixture{
		svc:    svc,
		db:     db,
		mailer: mailer,
		record: &billingdomain.PaymentHistory{
			ID:        node.Generate(),
			ParentID:  node.Generate(),
			Year:      2025,
			Month:     3,
			Total:     total,
			CreatedAt: time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC),
		},
		parent: &directorydomain.Parent{
			ID:    node.Generate(),
			Name:  "Famille Dupont",
			Email: "dupont@example.com",
		},
	}
}

func sendingOn() config.Config {
	return config.Config{SendingEnabled: true, DispatchTimeout: 5 * time.Second}
}

func TestDispatch_Sent(t *testing.T) {
	mailer := &mailerStub{configured: true, messageID: "<msg-1@test>"}
	f := setupDispatch(t, sendingOn(), mailer, &invoiceStub{})

	entry, err := f.svc.Dispatch(context.Background(), f.record, f.parent)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, entry.Status)
	require.NotNil(t, entry.MessageID)
	assert.Equal(t, "<msg-1@test>", *entry.MessageID)
	assert.Nil(t, entry.ErrorText)

	require.Len(t, mailer.sent, 1)
	require.Len(t, mailer.sent[0].Attachments, 1)
	assert.Equal(t, "FA-2025-190358.pdf", mailer.sent[0].Attachments[0].Filename)
	assert.Equal(t, "application/pdf", mailer.sent[0].Attachments[0].ContentType)
}

func TestDispatch_SkippedWhenSendingDisabled(t *testing.T) {
	mailer := &mailerStub{configured: true}
	cfg := config.Config{SendingEnabled: false, DispatchTimeout: 5 * time.Second}
	f := setupDispatch(t, cfg, mailer, &invoiceStub{})

	entry, err := f.svc.Dispatch(context.Background(), f.record, f.parent)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSkipped, entry.Status)
	assert.Empty(t, mailer.sent)
}

func TestDispatch_NoTransportDoesNotThrow(t *testing.T) {
	mailer := &mailerStub{configured: false}
	f := setupDispatch(t, sendingOn(), mailer, &invoiceStub{})

	entry, err := f.svc.Dispatch(context.Background(), f.record, f.parent)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoTransport, entry.Status)
	assert.Empty(t, mailer.sent)
}

func TestDispatch_MissingContact(t *testing.T) {
	mailer := &mailerStub{configured: true}
	f := setupDispatch(t, sendingOn(), mailer, &invoiceStub{})
	f.parent.Email = "   "

	entry, err := f.svc.Dispatch(context.Background(), f.record, f.parent)
	assert.ErrorIs(t, err, domain.ErrMissingContact)
	require.NotNil(t, entry)
	assert.Equal(t, domain.StatusFailed, entry.Status)
	require.NotNil(t, entry.ErrorText)
	assert.Contains(t, *entry.ErrorText, "missing contact")
	assert.Empty(t, mailer.sent)
}

func TestDispatch_RenderFailure(t *testing.T) {
	mailer := &mailerStub{configured: true}
	f := setupDispatch(t, sendingOn(), mailer, &invoiceStub{err: invoicedomain.ErrRenderFailed})

	entry, err := f.svc.Dispatch(context.Background(), f.record, f.parent)
	assert.Error(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, domain.StatusFailed, entry.Status)
	assert.Empty(t, mailer.sent)
}

func TestDispatch_TransportFailure(t *testing.T) {
	mailer := &mailerStub{configured: true, err: errors.New("smtp: connection refused")}
	f := setupDispatch(t, sendingOn(), mailer, &invoiceStub{})

	entry, err := f.svc.Dispatch(context.Background(), f.record, f.parent)
	assert.ErrorIs(t, err, domain.ErrSendFailed)
	require.NotNil(t, entry)
	assert.Equal(t, domain.StatusFailed, entry.Status)
	require.NotNil(t, entry.ErrorText)
	assert.Contains(t, *entry.ErrorText, "connection refused")
}

func TestDispatch_AppendsOneRowPerAttempt(t *testing.T) {
	mailer := &mailerStub{configured: true, messageID: "<msg@test>"}
	f := setupDispatch(t, sendingOn(), mailer, &invoiceStub{})

	_, err := f.svc.Dispatch(context.Background(), f.record, f.parent)
	require.NoError(t, err)
	_, err = f.svc.Dispatch(context.Background(), f.record, f.parent)
	require.NoError(t, err)

	entries, err := f.svc.ListByRecord(context.Background(), f.record.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	sent, err := f.svc.HasSent(context.Background(), f.record.ID)
	require.NoError(t, err)
	assert.True(t, sent)
}
