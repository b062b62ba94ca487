package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/glowdesk/internal/database"
	"github.com/example/glowdesk/internal/loyalty"
	"github.com/example/glowdesk/internal/models"
	"github.com/example/glowdesk/internal/rewards"
	"github.com/example/glowdesk/internal/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func setupService(t *testing.T) (*LoyaltyService, *gorm.DB, models.Business) {
	t.Helper()

	db := setupTestDB(t)
	policy, err := rewards.NewPolicy(rewards.DefaultTiers())
	require.NoError(t, err)

	business := models.Business{Name: "Glow Salon"}
	require.NoError(t, db.Create(&business).Error)

	return NewLoyaltyService(db, policy, nil), db, business
}

func defaultPage() utils.Pagination {
	return utils.Pagination{Page: 1, Limit: 20, Offset: 0}
}

func TestResolveCustomerNormalizesAndIsIdempotent(t *testing.T) {
	service, db, business := setupService(t)

	first, created, err := service.ResolveCustomer(business.ID, "555-123-4567")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "(555) 123-4567", first.Phone)

	// A differently punctuated rendering of the same number resolves to the
	// same customer without creating a second row.
	second, created, err := service.ResolveCustomer(business.ID, "(555) 123 4567")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResolveCustomerRejectsInvalidPhone(t *testing.T) {
	service, _, business := setupService(t)

	_, _, err := service.ResolveCustomer(business.ID, "123")
	assert.ErrorIs(t, err, loyalty.ErrInvalidPhone)
}

func TestResolveCustomerRecoversFromLostInsertRace(t *testing.T) {
	service, db, business := setupService(t)

	// Simulate a rival caller winning the insert race: just before our
	// insert runs, the same customer appears. The unique index rejects our
	// insert and the resolver must fall back to the retry lookup.
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:rival_insert", func(tx *gorm.DB) {
		if fired {
			return
		}
		if _, ok := tx.Statement.Dest.(*models.Customer); !ok {
			return
		}
		fired = true
		rival := models.Customer{BusinessID: business.ID, Phone: "(555) 987-6543"}
		require.NoError(t, db.Create(&rival).Error)
	})
	require.NoError(t, err)

	customer, created, err := service.ResolveCustomer(business.ID, "555-987-6543")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, fired)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Where("phone = ?", "(555) 987-6543").Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.NotEqual(t, uuid.Nil, customer.ID)
}

func TestRecordVisitUnknownCustomer(t *testing.T) {
	service, _, _ := setupService(t)

	_, err := service.RecordVisit(uuid.New(), nil)
	assert.ErrorIs(t, err, loyalty.ErrUnknownCustomer)
}

func TestVisitsIncreaseByOnePerCheckIn(t *testing.T) {
	service, _, business := setupService(t)

	for expected := 1; expected <= 4; expected++ {
		result, err := service.CheckIn(business.ID, "5551234567", nil)
		require.NoError(t, err)
		assert.Equal(t, expected, result.Aggregate.Visits)
	}
}

func TestLastVisitTracksLatestEvent(t *testing.T) {
	service, db, business := setupService(t)

	customer, _, err := service.ResolveCustomer(business.ID, "5551234567")
	require.NoError(t, err)

	// No events yet: last visit falls back to the creation time.
	summary, err := service.GetCustomerAggregate(business.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Aggregate.Visits)
	assert.WithinDuration(t, customer.CreatedAt, summary.Aggregate.LastVisit, time.Second)

	first, err := service.RecordVisit(customer.ID, nil)
	require.NoError(t, err)
	second, err := service.RecordVisit(customer.ID, nil)
	require.NoError(t, err)
	assert.False(t, second.CheckinTime.Before(first.CheckinTime))

	summary, err = service.GetCustomerAggregate(business.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Aggregate.Visits)
	assert.WithinDuration(t, second.CheckinTime, summary.Aggregate.LastVisit, time.Second)

	var stored []models.CheckinEvent
	require.NoError(t, db.Where("customer_id = ?", customer.ID).Find(&stored).Error)
	assert.Len(t, stored, 2)
}

func TestCheckInRewardScenario(t *testing.T) {
	service, _, business := setupService(t)
	staff := models.StaffUser{BusinessID: business.ID, Name: "Dana", Email: "dana@glow.test"}
	require.NoError(t, service.db.Create(&staff).Error)

	var result *CheckInResult
	var err error

	result, err = service.CheckIn(business.ID, "555-123-4567", &staff.ID)
	require.NoError(t, err)
	assert.True(t, result.NewCustomer)
	assert.Equal(t, 1, result.Aggregate.Visits)
	assert.Empty(t, result.Aggregate.Unlocked)
	assert.Nil(t, result.RewardEarned)
	require.NotNil(t, result.NextTier)
	assert.Equal(t, 5, result.NextTier.ThresholdVisits)
	assert.InDelta(t, 0.2, result.Progress, 1e-9)

	for i := 0; i < 3; i++ {
		result, err = service.CheckIn(business.ID, "555-123-4567", &staff.ID)
		require.NoError(t, err)
		assert.Nil(t, result.RewardEarned)
	}

	// Fifth visit crosses the first threshold.
	result, err = service.CheckIn(business.ID, "555-123-4567", &staff.ID)
	require.NoError(t, err)
	assert.False(t, result.NewCustomer)
	assert.Equal(t, 5, result.Aggregate.Visits)
	require.Len(t, result.Aggregate.Unlocked, 1)
	assert.Equal(t, "10% Off Next Service", result.Aggregate.Unlocked[0].Description)
	require.NotNil(t, result.RewardEarned)
	assert.Equal(t, 5, result.RewardEarned.ThresholdVisits)
	assert.Equal(t, 0.0, result.Progress)

	for i := 0; i < 5; i++ {
		result, err = service.CheckIn(business.ID, "555-123-4567", &staff.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, 10, result.Aggregate.Visits)
	require.Len(t, result.Aggregate.Unlocked, 2)
	assert.Equal(t, "Free Basic Service", result.Aggregate.Unlocked[1].Description)
	assert.Nil(t, result.NextTier)
	assert.Equal(t, 1.0, result.Progress)
}

func TestListCustomerAggregatesBatchesAndFilters(t *testing.T) {
	service, _, business := setupService(t)

	_, err := service.CheckIn(business.ID, "555-123-4567", nil)
	require.NoError(t, err)
	_, err = service.CheckIn(business.ID, "555-123-4567", nil)
	require.NoError(t, err)
	_, err = service.CheckIn(business.ID, "555-987-6543", nil)
	require.NoError(t, err)

	summaries, total, err := service.ListCustomerAggregates(business.ID, "", defaultPage())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, summaries, 2)
	assert.Equal(t, "(555) 123-4567", summaries[0].Customer.Phone)
	assert.Equal(t, 2, summaries[0].Aggregate.Visits)
	assert.Equal(t, 1, summaries[1].Aggregate.Visits)

	filtered, total, err := service.ListCustomerAggregates(business.ID, "987", defaultPage())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, filtered, 1)
	assert.Equal(t, "(555) 987-6543", filtered[0].Customer.Phone)

	// Customers of other businesses never leak into the listing.
	other := models.Business{Name: "Other Salon"}
	require.NoError(t, service.db.Create(&other).Error)
	summaries, total, err = service.ListCustomerAggregates(other.ID, "", defaultPage())
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, summaries)
}

func TestGetCustomerAggregateUnknownID(t *testing.T) {
	service, _, business := setupService(t)

	_, err := service.GetCustomerAggregate(business.ID, uuid.New())
	assert.ErrorIs(t, err, loyalty.ErrUnknownCustomer)
}

func TestDashboardTotals(t *testing.T) {
	service, _, business := setupService(t)

	for i := 0; i < 5; i++ {
		_, err := service.CheckIn(business.ID, "555-123-4567", nil)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := service.CheckIn(business.ID, "555-987-6543", nil)
		require.NoError(t, err)
	}

	stats, err := service.Dashboard(business.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCustomers)
	assert.Equal(t, 7, stats.TotalVisits)
	assert.Equal(t, 1, stats.RewardsEarned)
}
