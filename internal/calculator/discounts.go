package calculator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/batch-fee-api/internal/models"
)

// EntryID identifies a discount inside a working set. It is never persisted.
type EntryID int64

// Entry is one discount in a working set.
type Entry struct {
	ID EntryID `json:"id"`
	models.Discount
}

// DiscountSet is an ordered, immutable working set of discounts. Add and Remove
// return a new set and leave the receiver untouched.
type DiscountSet struct {
	entries []Entry
	nextID  EntryID
}

// Add appends a discount. Blank fields, an unknown category or an amount that is
// unparsable or finer than a cent leave the set unchanged and report false.
func (s DiscountSet) Add(studentName, category, amount string) (DiscountSet, EntryID, bool) {
	studentName = strings.TrimSpace(studentName)
	cat := models.DiscountCategory(strings.TrimSpace(category))
	amount = strings.TrimSpace(amount)
	if studentName == "" || amount == "" || !cat.Valid() {
		return s, 0, false
	}
	value, err := decimal.NewFromString(amount)
	if err != nil || !models.WholeCents(value) {
		return s, 0, false
	}

	id := s.nextID + 1
	entries := make([]Entry, len(s.entries), len(s.entries)+1)
	copy(entries, s.entries)
	entries = append(entries, Entry{
		ID: id,
		Discount: models.Discount{
			StudentName:      studentName,
			DiscountCategory: cat,
			DiscountAmount:   value,
		},
	})
	return DiscountSet{entries: entries, nextID: id}, id, true
}

// Remove drops the entry with the given id. Unknown ids are ignored.
func (s DiscountSet) Remove(id EntryID) DiscountSet {
	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ID != id {
			entries = append(entries, e)
		}
	}
	return DiscountSet{entries: entries, nextID: s.nextID}
}

// Len returns the number of entries.
func (s DiscountSet) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in insertion order.
func (s DiscountSet) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Discounts returns the discounts in insertion order, without entry ids.
func (s DiscountSet) Discounts() []models.Discount {
	out := make([]models.Discount, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Discount
	}
	return out
}
