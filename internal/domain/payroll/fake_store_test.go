package payroll

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type memState struct {
	periods  map[int64]Period
	payouts  map[int64]Payout
	items    []PayoutItem
	citizens []string
	nextID   int64
}

func (s memState) clone() memState {
	out := memState{
		periods:  map[int64]Period{},
		payouts:  map[int64]Payout{},
		items:    append([]PayoutItem(nil), s.items...),
		citizens: s.citizens,
		nextID:   s.nextID,
	}
	for k, v := range s.periods {
		out.periods[k] = v
	}
	for k, v := range s.payouts {
		out.payouts[k] = v
	}
	return out
}

type memStore struct {
	state   *memState
	inTx    bool
	locked  []int64
	commits int
}

func newMemStore(citizens ...string) *memStore {
	return &memStore{state: &memState{
		periods:  map[int64]Period{},
		payouts:  map[int64]Payout{},
		citizens: citizens,
	}}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx StoreAPI) error) error {
	working := m.state.clone()
	tx := &memStore{state: &working, inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	*m.state = working
	m.locked = append(m.locked, tx.locked...)
	m.commits++
	return nil
}

func (m *memStore) GetOrCreatePeriod(ctx context.Context, year, month int) (Period, error) {
	for _, p := range m.state.periods {
		if p.Year == year && p.Month == month {
			return p, nil
		}
	}
	m.state.nextID++
	p := Period{ID: m.state.nextID, Year: year, Month: month, Status: StatusOpen, TotalAmount: decimal.Zero}
	m.state.periods[p.ID] = p
	return p, nil
}

func (m *memStore) GetPeriod(ctx context.Context, id int64) (Period, error) {
	p, ok := m.state.periods[id]
	if !ok {
		return Period{}, ErrPeriodNotFound
	}
	return p, nil
}

func (m *memStore) LockPeriod(ctx context.Context, id int64) (Period, error) {
	m.locked = append(m.locked, id)
	return m.GetPeriod(ctx, id)
}

func (m *memStore) ListPeriods(ctx context.Context, limit, offset int) ([]Period, error) {
	var out []Period
	for _, p := range m.state.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) CountPeriods(ctx context.Context) (int, error) {
	return len(m.state.periods), nil
}

func (m *memStore) UpdatePeriodStatus(ctx context.Context, id int64, status Status, closedAt *time.Time) error {
	p, ok := m.state.periods[id]
	if !ok {
		return ErrPeriodNotFound
	}
	p.Status = status
	p.ClosedAt = closedAt
	m.state.periods[id] = p
	return nil
}

func (m *memStore) UpdatePeriodTotals(ctx context.Context, id int64, total decimal.Decimal, headcount int) error {
	p := m.state.periods[id]
	p.TotalAmount = total
	p.TotalHeadcount = headcount
	m.state.periods[id] = p
	return nil
}

func (m *memStore) ListEligibleCitizens(ctx context.Context, monthStart, monthEnd time.Time) ([]string, error) {
	return m.state.citizens, nil
}

func (m *memStore) DeletePayouts(ctx context.Context, periodID int64) error {
	for id, p := range m.state.payouts {
		if p.PeriodID != periodID {
			continue
		}
		delete(m.state.payouts, id)
		kept := m.state.items[:0]
		for _, item := range m.state.items {
			if item.PayoutID != id {
				kept = append(kept, item)
			}
		}
		m.state.items = kept
	}
	return nil
}

func (m *memStore) InsertPayout(ctx context.Context, p Payout) (int64, error) {
	m.state.nextID++
	p.ID = m.state.nextID
	m.state.payouts[p.ID] = p
	return p.ID, nil
}

func (m *memStore) InsertPayoutItem(ctx context.Context, item PayoutItem) error {
	m.state.nextID++
	item.ID = m.state.nextID
	m.state.items = append(m.state.items, item)
	return nil
}

func (m *memStore) ListPayouts(ctx context.Context, periodID int64) ([]Payout, error) {
	var out []Payout
	for _, p := range m.state.payouts {
		if p.PeriodID == periodID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CitizenID < out[j].CitizenID })
	return out, nil
}

func (m *memStore) GetPayout(ctx context.Context, periodID int64, citizenID string) (Payout, error) {
	for _, p := range m.state.payouts {
		if p.PeriodID == periodID && p.CitizenID == citizenID {
			return p, nil
		}
	}
	return Payout{}, ErrPeriodNotFound
}

func (m *memStore) ListPayoutItems(ctx context.Context, payoutID int64) ([]PayoutItem, error) {
	var out []PayoutItem
	for _, item := range m.state.items {
		if item.PayoutID == payoutID {
			out = append(out, item)
		}
	}
	return out, nil
}
