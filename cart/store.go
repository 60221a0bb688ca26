package cart

import (
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"foodie-api/coupon"
)

// ErrEmptyCart rejects coupon applies while the cart has no lines: a coupon
// is never part of the empty-cart state.
var ErrEmptyCart = errors.New("cannot apply a coupon to an empty cart")

// Store holds one customer's cart: an ordered list of lines belonging to a
// single restaurant, an optionally applied coupon, and the slide-over panel
// flag. All mutations are synchronous; the snapshot is written to the
// repository after every mutation on a best-effort basis: a failed write is
// logged and never rolls back the in-memory state.
//
// A Store is built by a Manager, never shared between users, and is safe for
// concurrent use by the handlers that serve one user's requests.
type Store struct {
	mu           sync.Mutex
	userID       uint
	lines        []Line
	restaurantID *uint
	applied      *coupon.Coupon
	discount     float64
	open         bool
	pending      *Line

	repo Repository
	log  *logrus.Entry

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// State is a read-only view of the store for display surfaces.
type State struct {
	Lines          []Line         `json:"lines"`
	RestaurantID   *uint          `json:"restaurant_id"`
	Coupon         *coupon.Coupon `json:"coupon,omitempty"`
	CouponDiscount float64        `json:"coupon_discount"`
	Open           bool           `json:"open"`
}

// Conflict describes a blocked cross-restaurant add: the cart already
// belongs to another restaurant, and replacing it needs an explicit
// ConfirmReplace. CancelReplace (or a later add) discards the proposal.
type Conflict struct {
	CurrentRestaurantID uint   `json:"current_restaurant_id"`
	ProposedItem        Item   `json:"proposed_item"`
	ProposedQuantity    int    `json:"proposed_quantity"`
	ProposedNote        string `json:"proposed_note,omitempty"`
}

// NewStore restores a store from the repository. A missing, unreadable or
// malformed snapshot yields an empty cart; the error is logged only.
func NewStore(userID uint, repo Repository, log *logrus.Entry) *Store {
	s := &Store{
		userID: userID,
		repo:   repo,
		log:    log,
		subs:   map[int]func(){},
	}
	snap, err := repo.Load(userID)
	if err != nil {
		log.WithError(err).Warn("could not restore cart, starting empty")
		return s
	}
	if snap != nil {
		s.restore(*snap)
	}
	return s
}

// restore rebuilds in-memory state from a snapshot. Out-of-range quantities
// are repaired rather than rejected, and the coupon discount is always
// recomputed against the restored subtotal.
func (s *Store) restore(snap Snapshot) {
	for _, l := range snap.Lines {
		if l.Quantity < MinQuantity {
			continue
		}
		if l.Quantity > MaxQuantity {
			l.Quantity = MaxQuantity
		}
		s.lines = append(s.lines, l)
	}
	if len(s.lines) == 0 {
		return
	}
	s.restaurantID = snap.RestaurantID
	if s.restaurantID == nil {
		rid := s.lines[0].Item.RestaurantID
		s.restaurantID = &rid
	}
	if snap.AppliedCoupon != nil {
		if d, c, err := coupon.Validate(*snap.AppliedCoupon, Subtotal(s.lines)); err == nil {
			s.applied = &c
			s.discount = d
		}
	}
}

// Subscribe registers a callback invoked after every committed mutation.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// State returns a copy of the current cart state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	st := State{
		Lines:          make([]Line, len(s.lines)),
		CouponDiscount: s.discount,
		Open:           s.open,
	}
	copy(st.Lines, s.lines)
	if s.restaurantID != nil {
		rid := *s.restaurantID
		st.RestaurantID = &rid
	}
	if s.applied != nil {
		c := *s.applied
		st.Coupon = &c
	}
	return st
}

// Summary computes the current total breakdown for a given delivery fee.
func (s *Store) Summary(deliveryFee float64) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	free := s.applied != nil && s.applied.FreeDelivery
	return Summarize(s.lines, deliveryFee, s.discount, free)
}

// AddItem inserts or merges a line and opens the panel. A quantity below the
// minimum is ignored. When the cart already belongs to another restaurant,
// nothing is mutated and a Conflict is returned; the add is kept pending
// until ConfirmReplace or CancelReplace resolves it.
func (s *Store) AddItem(item Item, quantity int, note string) *Conflict {
	if quantity < MinQuantity {
		return nil
	}
	s.mu.Lock()
	if s.restaurantID != nil && *s.restaurantID != item.RestaurantID && len(s.lines) > 0 {
		s.pending = &Line{Item: item, Quantity: quantity, Note: note}
		c := &Conflict{
			CurrentRestaurantID: *s.restaurantID,
			ProposedItem:        item,
			ProposedQuantity:    quantity,
			ProposedNote:        note,
		}
		s.mu.Unlock()
		return c
	}
	s.insertLocked(item, quantity, note)
	s.open = true
	s.revalidateLocked()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}

// ConfirmReplace discards the current cart and inserts the pending
// cross-restaurant line. Without a pending proposal it is a no-op.
func (s *Store) ConfirmReplace() {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	p := *s.pending
	s.pending = nil
	s.lines = nil
	s.restaurantID = nil
	s.applied = nil
	s.discount = 0
	s.insertLocked(p.Item, p.Quantity, p.Note)
	s.open = true
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// CancelReplace drops any pending cross-restaurant proposal.
func (s *Store) CancelReplace() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// RemoveItem deletes the line keyed by (itemID, note). Removing the last
// line clears the owning restaurant and any applied coupon.
func (s *Store) RemoveItem(itemID uint, note string) {
	s.mu.Lock()
	if !s.removeLocked(itemID, note) {
		s.mu.Unlock()
		return
	}
	s.revalidateLocked()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// UpdateQuantity replaces the quantity of the line keyed by (itemID, note).
// A quantity of zero or below removes the line; one above the maximum is
// ignored.
func (s *Store) UpdateQuantity(itemID uint, quantity int, note string) {
	if quantity <= 0 {
		s.RemoveItem(itemID, note)
		return
	}
	if quantity > MaxQuantity {
		return
	}
	s.mu.Lock()
	changed := false
	for i := range s.lines {
		if s.lines[i].matches(itemID, note) {
			s.lines[i].Quantity = quantity
			changed = true
			break
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	s.revalidateLocked()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Clear empties the cart, clears restaurant and coupon, and closes the panel.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.restaurantID = nil
	s.applied = nil
	s.discount = 0
	s.open = false
	s.pending = nil
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// ApplyCoupon validates a code against the current subtotal. On failure the
// validator's error is returned and nothing is mutated. A blank code is
// ignored; an empty cart rejects every code.
func (s *Store) ApplyCoupon(code string) error {
	if strings.TrimSpace(code) == "" {
		return nil
	}
	s.mu.Lock()
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return ErrEmptyCart
	}
	d, c, err := coupon.Validate(code, Subtotal(s.lines))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.applied = &c
	s.discount = d
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}

// RemoveCoupon clears the applied coupon and its discount.
func (s *Store) RemoveCoupon() {
	s.mu.Lock()
	if s.applied == nil {
		s.mu.Unlock()
		return
	}
	s.applied = nil
	s.discount = 0
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// SetOpen sets the slide-over panel flag. Not persisted, not broadcast.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	s.open = open
	s.mu.Unlock()
}

// insertLocked merges into an existing line with the same identity key or
// appends a new one, claiming the restaurant on first insert.
func (s *Store) insertLocked(item Item, quantity int, note string) {
	for i := range s.lines {
		if s.lines[i].matches(item.ID, note) {
			q := s.lines[i].Quantity + quantity
			if q > MaxQuantity {
				q = MaxQuantity
			}
			s.lines[i].Quantity = q
			return
		}
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}
	s.lines = append(s.lines, Line{Item: item, Quantity: quantity, Note: note})
	if s.restaurantID == nil {
		rid := item.RestaurantID
		s.restaurantID = &rid
	}
}

func (s *Store) removeLocked(itemID uint, note string) bool {
	for i := range s.lines {
		if s.lines[i].matches(itemID, note) {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			if len(s.lines) == 0 {
				s.restaurantID = nil
				s.applied = nil
				s.discount = 0
			}
			return true
		}
	}
	return false
}

// revalidateLocked re-runs the coupon validator after any line change. A
// coupon that no longer qualifies is cleared silently: this is background
// consistency repair, not a user action failure.
func (s *Store) revalidateLocked() {
	if s.applied == nil {
		return
	}
	d, c, err := coupon.Validate(s.applied.Code, Subtotal(s.lines))
	if err != nil {
		s.applied = nil
		s.discount = 0
		return
	}
	s.applied = &c
	s.discount = d
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Lines:          make([]Line, len(s.lines)),
		CouponDiscount: s.discount,
	}
	copy(snap.Lines, s.lines)
	if s.restaurantID != nil {
		rid := *s.restaurantID
		snap.RestaurantID = &rid
	}
	if s.applied != nil {
		code := s.applied.Code
		snap.AppliedCoupon = &code
	}
	return snap
}

// persistLocked writes the current snapshot while still holding mu, so saved
// snapshots reach the repository in mutation order and a stale snapshot can
// never overwrite a newer one. Persistence stays best-effort: the in-memory
// mutation already happened and stands.
func (s *Store) persistLocked() {
	if err := s.repo.Save(s.userID, s.snapshotLocked()); err != nil {
		s.log.WithError(err).Warn("failed to persist cart")
	}
}

// notify runs subscriber callbacks outside both locks.
func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
