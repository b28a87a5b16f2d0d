package billingrun

import (
	"context"
	"testing"
	"time"

	attendanceservice "github.com/Nairolf13/Frimousse-sub002/internal/attendance/service"
	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	billingservice "github.com/Nairolf13/Frimousse-sub002/internal/billing/service"
	"github.com/Nairolf13/Frimousse-sub002/internal/clock"
	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	directoryrepo "github.com/Nairolf13/Frimousse-sub002/internal/directory/repository"
	dispatchdomain "github.com/Nairolf13/Frimousse-sub002/internal/dispatch/domain"
	dispatchservice "github.com/Nairolf13/Frimousse-sub002/internal/dispatch/service"
	invoicedomain "github.com/Nairolf13/Frimousse-sub002/internal/invoice/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/providers/email"
	"github.com/Nairolf13/Frimousse-sub002/internal/providers/notify"
	"github.com/Nairolf13/Frimousse-sub002/internal/report"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mailerStub struct {
	sent []email.Message
}

func (m *mailerStub) Send(ctx context.Context, msg email.Message) (string, error) {
	m.sent = append(m.sent, msg)
	return "<stub@localhost>", nil
}

func (m *mailerStub) Configured() bool { return true }

type invoiceStub struct{}

func (invoiceStub) Render(ctx context.Context, record *billingdomain.PaymentHistory, parent *directorydomain.Parent) (*invoicedomain.Rendered, error) {
	return &invoicedomain.Rendered{
		Number:   "FA-2025-000000",
		Filename: "FA-2025-000000.pdf",
		Bytes:    []byte("%PDF-1.7 stub"),
	}, nil
}

func (s invoiceStub) RenderByID(ctx context.Context, recordID snowflake.ID) (*invoicedomain.Rendered, error) {
	return s.Render(ctx, nil, nil)
}

type runnerFixture struct {
	runner *Runner
	db     *gorm.DB
	mailer *mailerStub
	node   *snowflake.Node

	parentWithDays snowflake.ID
	parentNoDays   snowflake.ID
	parentNoEmail  snowflake.ID
}

// setupRunner wires the full pipeline over an in-memory store: three parents,
// one with March attendance and a contact address, one with no attendance,
// one with attendance but no address.
func setupRunner(t *testing.T, policy config.BillingPolicy) *runnerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&directorydomain.Center{},
		&directorydomain.Parent{},
		&directorydomain.Child{},
		&directorydomain.AttendanceRecord{},
		&billingdomain.PaymentHistory{},
		&billingdomain.PaymentHistoryItem{},
		&dispatchdomain.EmailLog{},
	))

	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	node, _ := snowflake.NewNode(1)
	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC))
	holder := config.NewStaticBillingPolicyHolder(policy)

	directory := directoryrepo.Provide(db)
	attendance := attendanceservice.NewService(attendanceservice.ServiceParam{
		Log:       log,
		Directory: directory,
		Policy:    holder,
		Location:  loc,
	})
	ledger := billingservice.NewService(billingservice.ServiceParam{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
	})
	mailer := &mailerStub{}
	dispatch := dispatchservice.NewService(dispatchservice.ServiceParam{
		DB:       db,
		Log:      log,
		Cfg:      config.Config{SendingEnabled: true, DispatchTimeout: 5 * time.Second},
		GenID:    node,
		Clock:    fake,
		Invoices: invoiceStub{},
		Mailer:   mailer,
	})
	notifier := report.NewNotifier(report.NotifierParam{
		Log:      log,
		Policy:   holder,
		Mailer:   mailer,
		Notifier: &notify.NoOpProvider{},
	})

	runner := New(Params{
		Log:        log,
		Directory:  directory,
		Attendance: attendance,
		Ledger:     ledger,
		Dispatch:   dispatch,
		Notifier:   notifier,
		Policy:     holder,
		Clock:      fake,
		Location:   loc,
	})

	f := &runnerFixture{runner: runner, db: db, mailer: mailer, node: node}
	f.seed(t, loc)
	return f
}

func (f *runnerFixture) seed(t *testing.T, loc *time.Location) {
	t.Helper()

	center := directorydomain.Center{ID: f.node.Generate(), Name: "Les Frimousses", CreatedAt: time.Now()}
	require.NoError(t, f.db.Create(&center).Error)

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, loc)
	parents := []struct {
		name  string
		email string
		days  []time.Time
		idDst *snowflake.ID
	}{
		{
			name:  "Famille Dupont",
			email: "dupont@example.com",
			days: []time.Time{
				time.Date(2025, 3, 3, 9, 0, 0, 0, loc),
				time.Date(2025, 3, 10, 9, 0, 0, 0, loc),
				time.Date(2025, 3, 17, 9, 0, 0, 0, loc),
			},
			idDst: &f.parentWithDays,
		},
		{
			name:  "Famille Martin",
			email: "martin@example.com",
			days:  nil,
			idDst: &f.parentNoDays,
		},
		{
			name:  "Famille Bernard",
			email: "",
			days:  []time.Time{time.Date(2025, 3, 5, 9, 0, 0, 0, loc)},
			idDst: &f.parentNoEmail,
		},
	}

	for i, p := range parents {
		parent := directorydomain.Parent{
			ID:        f.node.Generate(),
			CenterID:  center.ID,
			Name:      p.name,
			Email:     p.email,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.db.Create(&parent).Error)
		*p.idDst = parent.ID

		child := directorydomain.Child{
			ID:        f.node.Generate(),
			CenterID:  center.ID,
			Name:      p.name + " enfant",
			GroupName: "Papillons",
			CreatedAt: parent.CreatedAt,
		}
		require.NoError(t, f.db.Create(&child).Error)
		require.NoError(t, f.db.Exec(
			"INSERT INTO parent_children (parent_id, child_id) VALUES (?, ?)",
			parent.ID, child.ID,
		).Error)

		for _, day := range p.days {
			require.NoError(t, f.db.Create(&directorydomain.AttendanceRecord{
				ID:        f.node.Generate(),
				ChildID:   child.ID,
				Date:      day,
				CreatedAt: day,
			}).Error)
		}
	}
}

func TestRunForMonth_IsolatesFailures(t *testing.T) {
	f := setupRunner(t, config.DefaultBillingPolicy())

	rep, err := f.runner.RunForMonth(context.Background(), 2025, 3)
	require.NoError(t, err)

	// Dupont sends, Bernard fails on missing contact, Martin is never
	// attempted. Bernard's failure did not stop Dupont.
	assert.Equal(t, 2, rep.TotalAttempted)
	assert.Equal(t, 1, rep.SentCount)
	assert.Equal(t, 1, rep.FailedCount)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "Famille Bernard", rep.Failures[0].ParentName)
	assert.Contains(t, rep.Failures[0].Reason, "missing contact")

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, []string{"dupont@example.com"}, f.mailer.sent[0].To)
}

func TestRunForMonth_ZeroTotalProducesNoDispatch(t *testing.T) {
	f := setupRunner(t, config.DefaultBillingPolicy())

	_, err := f.runner.RunForMonth(context.Background(), 2025, 3)
	require.NoError(t, err)

	// The zero-total parent still gets a ledger row, but no audit entry.
	var record billingdomain.PaymentHistory
	require.NoError(t, f.db.
		Where("parent_id = ? AND year = ? AND month = ?", f.parentNoDays, 2025, 3).
		First(&record).Error)
	assert.True(t, record.Total.IsZero())

	var logs int64
	require.NoError(t, f.db.Model(&dispatchdomain.EmailLog{}).
		Where("payment_history_id = ?", record.ID).
		Count(&logs).Error)
	assert.Zero(t, logs)
}

func TestRunForMonth_RerunKeepsOneLedgerRowPerPeriod(t *testing.T) {
	f := setupRunner(t, config.DefaultBillingPolicy())

	_, err := f.runner.RunForMonth(context.Background(), 2025, 3)
	require.NoError(t, err)
	rep, err := f.runner.RunForMonth(context.Background(), 2025, 3)
	require.NoError(t, err)

	var rows int64
	require.NoError(t, f.db.Model(&billingdomain.PaymentHistory{}).
		Where("parent_id = ? AND year = ? AND month = ?", f.parentWithDays, 2025, 3).
		Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	// Default policy resends, so the second run dispatches again.
	assert.Equal(t, 1, rep.SentCount)
	assert.Len(t, f.mailer.sent, 2)
}

func TestRunForMonth_ResendOnceSuppressesSecondSend(t *testing.T) {
	policy := config.DefaultBillingPolicy()
	policy.ResendPolicy = config.ResendOnce
	f := setupRunner(t, policy)

	_, err := f.runner.RunForMonth(context.Background(), 2025, 3)
	require.NoError(t, err)
	rep, err := f.runner.RunForMonth(context.Background(), 2025, 3)
	require.NoError(t, err)

	// Second run: Dupont already has a sent log and drops out; only the
	// missing-contact parent is attempted again.
	assert.Equal(t, 1, rep.TotalAttempted)
	assert.Equal(t, 0, rep.SentCount)
	assert.Equal(t, 1, rep.FailedCount)
	assert.Len(t, f.mailer.sent, 1)
}

func TestRunForMonth_InvalidMonth(t *testing.T) {
	f := setupRunner(t, config.DefaultBillingPolicy())

	_, err := f.runner.RunForMonth(context.Background(), 2025, 0)
	assert.ErrorIs(t, err, billingdomain.ErrInvalidMonth)
	_, err = f.runner.RunForMonth(context.Background(), 2025, 13)
	assert.ErrorIs(t, err, billingdomain.ErrInvalidMonth)
}

func TestRunForPreviousMonth_ResolvesPeriodInCenterTimezone(t *testing.T) {
	f := setupRunner(t, config.DefaultBillingPolicy())

	// Clock is 2025-04-01 06:00 UTC, 08:00 in Paris: previous month is March.
	rep, err := f.runner.RunForPreviousMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2025, rep.Year)
	assert.Equal(t, 3, rep.Month)
	assert.Equal(t, 1, rep.SentCount)
}
