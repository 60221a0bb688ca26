package cart_test

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodie-api/cart"
)

var (
	burger = cart.Item{ID: 1, RestaurantID: 1, Name: "Burger", UnitPrice: 10}
	fries  = cart.Item{ID: 2, RestaurantID: 1, Name: "Fries", UnitPrice: 5}
	sushi  = cart.Item{ID: 3, RestaurantID: 2, Name: "Sushi", UnitPrice: 30}
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("component", "cart-test")
}

func newStore(t *testing.T) (*cart.Store, *cart.MemoryRepository) {
	t.Helper()
	repo := cart.NewMemoryRepository()
	return cart.NewStore(42, repo, testLogger()), repo
}

func TestAddMergesSameItemAndNote(t *testing.T) {
	s, _ := newStore(t)

	require.Nil(t, s.AddItem(burger, 2, ""))
	require.Nil(t, s.AddItem(burger, 3, ""))

	st := s.State()
	require.Len(t, st.Lines, 1)
	assert.Equal(t, 5, st.Lines[0].Quantity)
	require.NotNil(t, st.RestaurantID)
	assert.Equal(t, uint(1), *st.RestaurantID)
	assert.True(t, st.Open)
}

func TestAddClampsQuantityAtMaximum(t *testing.T) {
	s, _ := newStore(t)

	s.AddItem(burger, 60, "")
	s.AddItem(burger, 60, "")

	st := s.State()
	require.Len(t, st.Lines, 1)
	assert.Equal(t, cart.MaxQuantity, st.Lines[0].Quantity)
}

func TestAddKeepsDistinctNotesOnDistinctLines(t *testing.T) {
	s, _ := newStore(t)

	s.AddItem(burger, 2, "")
	s.AddItem(burger, 1, "no onions")

	st := s.State()
	require.Len(t, st.Lines, 2)
	assert.Equal(t, 2, st.Lines[0].Quantity)
	assert.Equal(t, "no onions", st.Lines[1].Note)
}

func TestAddIgnoresQuantityBelowMinimum(t *testing.T) {
	s, _ := newStore(t)

	assert.Nil(t, s.AddItem(burger, 0, ""))
	assert.Nil(t, s.AddItem(burger, -3, ""))
	assert.Empty(t, s.State().Lines)
}

func TestUpdateQuantity(t *testing.T) {
	s, _ := newStore(t)
	s.AddItem(burger, 2, "")

	s.UpdateQuantity(burger.ID, 7, "")
	assert.Equal(t, 7, s.State().Lines[0].Quantity)

	// Above the maximum is ignored
	s.UpdateQuantity(burger.ID, cart.MaxQuantity+1, "")
	assert.Equal(t, 7, s.State().Lines[0].Quantity)

	// Zero removes the line
	s.UpdateQuantity(burger.ID, 0, "")
	assert.Empty(t, s.State().Lines)
}

func TestRemovingLastLineResetsRestaurantAndCoupon(t *testing.T) {
	s, _ := newStore(t)
	s.AddItem(burger, 4, "") // subtotal 40
	require.NoError(t, s.ApplyCoupon("DESCONTO10"))

	s.RemoveItem(burger.ID, "")

	st := s.State()
	assert.Empty(t, st.Lines)
	assert.Nil(t, st.RestaurantID)
	assert.Nil(t, st.Coupon)
	assert.Equal(t, 0.0, st.CouponDiscount)
}

func TestCrossRestaurantAddIsTwoPhase(t *testing.T) {
	s, _ := newStore(t)
	s.AddItem(burger, 2, "")
	require.NoError(t, s.ApplyCoupon("PRIMEIRA"))

	conflict := s.AddItem(sushi, 1, "extra wasabi")
	require.NotNil(t, conflict)
	assert.Equal(t, uint(1), conflict.CurrentRestaurantID)
	assert.Equal(t, sushi, conflict.ProposedItem)

	// Nothing mutated yet
	st := s.State()
	require.Len(t, st.Lines, 1)
	assert.Equal(t, burger.ID, st.Lines[0].Item.ID)
	assert.NotNil(t, st.Coupon)

	s.ConfirmReplace()

	st = s.State()
	require.Len(t, st.Lines, 1)
	assert.Equal(t, sushi.ID, st.Lines[0].Item.ID)
	assert.Equal(t, "extra wasabi", st.Lines[0].Note)
	require.NotNil(t, st.RestaurantID)
	assert.Equal(t, uint(2), *st.RestaurantID)
	assert.Nil(t, st.Coupon)

	// A second confirm with nothing pending is a no-op
	s.ConfirmReplace()
	assert.Len(t, s.State().Lines, 1)
}

func TestCancelReplaceKeepsCurrentCart(t *testing.T) {
	s, _ := newStore(t)
	s.AddItem(burger, 2, "")

	require.NotNil(t, s.AddItem(sushi, 1, ""))
	s.CancelReplace()

	st := s.State()
	require.Len(t, st.Lines, 1)
	assert.Equal(t, burger.ID, st.Lines[0].Item.ID)

	// The dropped proposal cannot be confirmed later
	s.ConfirmReplace()
	assert.Equal(t, burger.ID, s.State().Lines[0].Item.ID)
}

func TestApplyCouponFailureDoesNotMutate(t *testing.T) {
	s, _ := newStore(t)
	s.AddItem(burger, 1, "") // subtotal 10, below DESCONTO10 minimum

	err := s.ApplyCoupon("DESCONTO10")
	require.Error(t, err)
	assert.Nil(t, s.State().Coupon)

	err = s.ApplyCoupon("BOGUS")
	require.Error(t, err)
	assert.Nil(t, s.State().Coupon)
}

func TestApplyCouponRejectedOnEmptyCart(t *testing.T) {
	s, _ := newStore(t)

	// Even a coupon with no minimum order needs at least one line
	err := s.ApplyCoupon("PRIMEIRA")
	require.ErrorIs(t, err, cart.ErrEmptyCart)
	assert.Nil(t, s.State().Coupon)

	s.AddItem(burger, 4, "")
	require.NoError(t, s.ApplyCoupon("PRIMEIRA"))
	s.Clear()

	require.ErrorIs(t, s.ApplyCoupon("PRIMEIRA"), cart.ErrEmptyCart)
	assert.Nil(t, s.State().Coupon)
}

func TestApplyCouponIgnoresBlankCode(t *testing.T) {
	s, _ := newStore(t)
	s.AddItem(burger, 4, "")

	require.NoError(t, s.ApplyCoupon("   "))
	assert.Nil(t, s.State().Coupon)
}

func TestRemoveCoupon(t *testing.T) {
	s, _ := newStore(t)
	s.AddItem(burger, 4, "")
	require.NoError(t, s.ApplyCoupon("DESCONTO10"))

	s.RemoveCoupon()

	st := s.State()
	assert.Nil(t, st.Coupon)
	assert.Equal(t, 0.0, st.CouponDiscount)
	assert.Len(t, st.Lines, 1)
}

func TestCouponRevalidatedOnEveryLineChange(t *testing.T) {
	s, _ := newStore(t)

	// Build subtotal 30: Burger x2 plus Burger "no onions" x1
	s.AddItem(burger, 2, "")
	s.AddItem(burger, 1, "no onions")
	require.NoError(t, s.ApplyCoupon("DESCONTO10"))

	st := s.State()
	require.Len(t, st.Lines, 2)
	assert.Equal(t, 10.0, st.CouponDiscount)

	sum := s.Summary(8)
	assert.Equal(t, 30.0, sum.Subtotal)
	assert.Equal(t, 28.0, sum.Total) // 30 + 8 - 10

	// Dropping the plain line leaves subtotal 10, below the minimum:
	// the coupon is silently cleared
	s.UpdateQuantity(burger.ID, 0, "")

	st = s.State()
	require.Len(t, st.Lines, 1)
	assert.Nil(t, st.Coupon)
	assert.Equal(t, 0.0, st.CouponDiscount)
	assert.Equal(t, 18.0, s.Summary(8).Total)
}

func TestCouponDiscountGrowsWithSubtotal(t *testing.T) {
	s, _ := newStore(t)
	s.AddItem(burger, 4, "") // subtotal 40
	require.NoError(t, s.ApplyCoupon("PRIMEIRA"))
	assert.Equal(t, 20.0, s.State().CouponDiscount)

	s.AddItem(burger, 6, "") // subtotal 100, discount hits the cap
	assert.Equal(t, 25.0, s.State().CouponDiscount)
}

func TestFreeDeliveryCouponWaivesFee(t *testing.T) {
	s, _ := newStore(t)
	s.AddItem(burger, 3, "") // subtotal 30
	require.NoError(t, s.ApplyCoupon("FRETEGRATIS"))

	sum := s.Summary(8)
	assert.Equal(t, 0.0, sum.DeliveryFee)
	assert.Equal(t, 30.0, sum.Total)
}

func TestClear(t *testing.T) {
	s, _ := newStore(t)
	s.AddItem(burger, 2, "")
	s.AddItem(fries, 1, "")
	require.NoError(t, s.ApplyCoupon("PRIMEIRA"))

	s.Clear()

	st := s.State()
	assert.Empty(t, st.Lines)
	assert.Nil(t, st.RestaurantID)
	assert.Nil(t, st.Coupon)
	assert.False(t, st.Open)
}

func TestStateSurvivesRestore(t *testing.T) {
	repo := cart.NewMemoryRepository()
	s := cart.NewStore(7, repo, testLogger())
	s.AddItem(burger, 2, "no pickles")
	s.AddItem(fries, 2, "") // subtotal 30
	require.NoError(t, s.ApplyCoupon("DESCONTO10"))

	restored := cart.NewStore(7, repo, testLogger())
	st := restored.State()
	require.Len(t, st.Lines, 2)
	assert.Equal(t, "no pickles", st.Lines[0].Note)
	require.NotNil(t, st.Coupon)
	assert.Equal(t, "DESCONTO10", st.Coupon.Code)
	assert.Equal(t, 10.0, st.CouponDiscount)
	assert.False(t, st.Open) // panel state is not persisted
}

type brokenRepo struct{}

func (brokenRepo) Load(uint) (*cart.Snapshot, error) { return nil, errors.New("corrupt payload") }
func (brokenRepo) Save(uint, cart.Snapshot) error    { return errors.New("disk full") }

func TestUnreadableSnapshotYieldsEmptyCart(t *testing.T) {
	s := cart.NewStore(7, brokenRepo{}, testLogger())
	st := s.State()
	assert.Empty(t, st.Lines)
	assert.Nil(t, st.RestaurantID)
}

func TestPersistenceFailureDoesNotRollBack(t *testing.T) {
	repo := cart.NewMemoryRepository()
	repo.FailSaves = true
	s := cart.NewStore(7, repo, testLogger())

	s.AddItem(burger, 2, "")
	assert.Len(t, s.State().Lines, 1)
}

func TestConcurrentMutationsPersistFinalState(t *testing.T) {
	repo := cart.NewMemoryRepository()
	s := cart.NewStore(7, repo, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(burger, 1, "")
		}()
	}
	wg.Wait()

	// Snapshots are written in mutation order, so the repository must hold
	// the final state, never a stale intermediate one
	snap, err := repo.Load(7)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 20, snap.Lines[0].Quantity)
	assert.Equal(t, s.State().Lines[0].Quantity, snap.Lines[0].Quantity)
}

func TestSubscribeNotifiesOnMutations(t *testing.T) {
	s, _ := newStore(t)

	var calls int
	unsubscribe := s.Subscribe(func() { calls++ })

	s.AddItem(burger, 1, "")
	s.UpdateQuantity(burger.ID, 3, "")
	s.Clear()
	assert.Equal(t, 3, calls)

	// Rejected operations do not notify
	s.AddItem(burger, 0, "")
	assert.Equal(t, 3, calls)

	unsubscribe()
	s.AddItem(burger, 1, "")
	assert.Equal(t, 3, calls)
}

func TestManagerReturnsSameStorePerUser(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	m := cart.NewManager(cart.NewMemoryRepository(), l)

	a := m.For(1)
	b := m.For(1)
	c := m.For(2)
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
