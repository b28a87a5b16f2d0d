package service

import (
	"context"
	"testing"
	"time"

	"github.com/Nairolf13/Frimousse-sub002/internal/attendance/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	directoryrepo "github.com/Nairolf13/Frimousse-sub002/internal/directory/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	loc      *time.Location
	parentID snowflake.ID
	childID  snowflake.ID
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&directorydomain.Center{},
		&directorydomain.Parent{},
		&directorydomain.Child{},
		&directorydomain.AttendanceRecord{},
	))

	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	node, _ := snowflake.NewNode(1)
	centerID := node.Generate()
	parent := directorydomain.Parent{ID: node.Generate(), CenterID: centerID, Name: "Dupont", CreatedAt: time.Now()}
	child := directorydomain.Child{ID: node.Generate(), CenterID: centerID, Name: "Léa", GroupName: "Papillons", CreatedAt: time.Now()}
	require.NoError(t, db.Create(&parent).Error)
	require.NoError(t, db.Create(&child).Error)
	require.NoError(t, db.Exec("INSERT INTO parent_children (parent_id, child_id) VALUES (?, ?)", parent.ID, child.ID).Error)

	svc := NewService(ServiceParam{
		Log:       zap.NewNop(),
		Directory: directoryrepo.Provide(db),
		Policy:    config.NewStaticBillingPolicyHolder(config.BillingPolicy{RatePerDay: "25.00", Currency: "EUR"}),
		Location:  loc,
	})

	return &fixture{
		svc:      svc,
		db:       db,
		node:     node,
		loc:      loc,
		parentID: parent.ID,
		childID:  child.ID,
	}
}

func (f *fixture) attend(t *testing.T, day time.Time) {
	t.Helper()
	require.NoError(t, f.db.Create(&directorydomain.AttendanceRecord{
		ID:        f.node.Generate(),
		ChildID:   f.childID,
		Date:      day,
		CreatedAt: time.Now(),
	}).Error)
}

func TestAggregate_CountsWithinCalendarMonth(t *testing.T) {
	f := setup(t)

	// Inside March 2025, center timezone.
	f.attend(t, time.Date(2025, 3, 1, 0, 0, 0, 0, f.loc))
	f.attend(t, time.Date(2025, 3, 15, 0, 0, 0, 0, f.loc))
	f.attend(t, time.Date(2025, 3, 31, 0, 0, 0, 0, f.loc))
	// Outside: last of February, first of April.
	f.attend(t, time.Date(2025, 2, 28, 0, 0, 0, 0, f.loc))
	f.attend(t, time.Date(2025, 4, 1, 0, 0, 0, 0, f.loc))

	items, err := f.svc.Aggregate(context.Background(), f.parentID, 2025, 3)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Léa", items[0].ChildName)
	assert.Equal(t, 3, items[0].DaysPresent)
	assert.Equal(t, "25.00", items[0].RatePerDay.StringFixed(2))
	assert.Equal(t, "75.00", items[0].Subtotal.StringFixed(2))
}

func TestAggregate_ChildWithNoAttendance(t *testing.T) {
	f := setup(t)

	items, err := f.svc.Aggregate(context.Background(), f.parentID, 2025, 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].DaysPresent)
	assert.True(t, items[0].Subtotal.IsZero())
}

func TestAggregate_RejectsInvalidMonth(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Aggregate(context.Background(), f.parentID, 2025, 0)
	assert.Error(t, err)
}
