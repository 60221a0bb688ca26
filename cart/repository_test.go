package cart_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"foodie-api/cart"
	"foodie-api/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CartRecord{}))
	return db
}

func TestGormRepositoryRoundTrip(t *testing.T) {
	repo := cart.NewGormRepository(testDB(t))

	rid := uint(1)
	code := "DESCONTO10"
	snap := cart.Snapshot{
		Lines: []cart.Line{
			{Item: cart.Item{ID: 1, RestaurantID: 1, Name: "Burger", UnitPrice: 10}, Quantity: 3, Note: "no onions"},
		},
		RestaurantID:   &rid,
		AppliedCoupon:  &code,
		CouponDiscount: 10,
	}
	require.NoError(t, repo.Save(42, snap))

	loaded, err := repo.Load(42)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap, *loaded)

	// Saving again overwrites in place
	snap.Lines[0].Quantity = 5
	require.NoError(t, repo.Save(42, snap))
	loaded, err = repo.Load(42)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Lines[0].Quantity)
}

func TestGormRepositoryMissingRecord(t *testing.T) {
	repo := cart.NewGormRepository(testDB(t))

	loaded, err := repo.Load(999)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestGormRepositoryMalformedPayload(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Save(&models.CartRecord{
		UserID:    42,
		Payload:   "{not json",
		UpdatedAt: time.Now(),
	}).Error)

	repo := cart.NewGormRepository(db)
	_, err := repo.Load(42)
	assert.Error(t, err)
}

func TestStoreStartsEmptyOnMalformedBlob(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Save(&models.CartRecord{
		UserID:    42,
		Payload:   "garbage",
		UpdatedAt: time.Now(),
	}).Error)

	s := cart.NewStore(42, cart.NewGormRepository(db), testLogger())
	assert.Empty(t, s.State().Lines)

	// The store remains usable and overwrites the bad blob
	s.AddItem(burger, 1, "")
	restored := cart.NewStore(42, cart.NewGormRepository(db), testLogger())
	assert.Len(t, restored.State().Lines, 1)
}
