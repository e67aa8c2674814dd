package request

import (
	"context"
	"sort"
	"time"

	"pts/internal/domain/eligibility"
	"pts/internal/platform/querier"
)

type memState struct {
	requests   map[int64]Request
	actions    []Action
	signatures map[int64][]byte
	nextID     int64
}

func (s memState) clone() memState {
	out := memState{
		requests:   map[int64]Request{},
		actions:    append([]Action(nil), s.actions...),
		signatures: map[int64][]byte{},
		nextID:     s.nextID,
	}
	for k, v := range s.requests {
		out.requests[k] = v
	}
	for k, v := range s.signatures {
		out.signatures[k] = v
	}
	return out
}

type memStore struct {
	state   *memState
	commits int
}

func newMemStore() *memStore {
	return &memStore{state: &memState{requests: map[int64]Request{}, signatures: map[int64][]byte{}}}
}

func (m *memStore) put(r Request) Request {
	m.state.nextID++
	r.ID = m.state.nextID
	m.state.requests[r.ID] = r
	return r
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx StoreAPI) error) error {
	working := m.state.clone()
	if err := fn(&memStore{state: &working}); err != nil {
		return err
	}
	*m.state = working
	m.commits++
	return nil
}

func (m *memStore) Querier() querier.Querier { return nil }

func (m *memStore) CreateRequest(ctx context.Context, r Request) (Request, error) {
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	return m.put(r), nil
}

func (m *memStore) GetRequest(ctx context.Context, id int64) (Request, error) {
	r, ok := m.state.requests[id]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return r, nil
}

func (m *memStore) LockRequest(ctx context.Context, id int64) (Request, error) {
	return m.GetRequest(ctx, id)
}

func (m *memStore) ListRequests(ctx context.Context, f ListFilter) ([]Request, error) {
	var out []Request
	for _, r := range m.state.requests {
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Step > 0 && r.CurrentStep != f.Step {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateRequestState(ctx context.Context, id int64, status Status, step int) error {
	r, ok := m.state.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	r.Status = status
	r.CurrentStep = step
	m.state.requests[id] = r
	return nil
}

func (m *memStore) InsertAction(ctx context.Context, a Action) (Action, error) {
	m.state.nextID++
	a.ID = m.state.nextID
	a.ActionDate = time.Now()
	a.HasSignature = len(a.SignatureSnapshot) > 0
	m.state.actions = append(m.state.actions, a)
	return a, nil
}

func (m *memStore) ListActions(ctx context.Context, requestID int64) ([]Action, error) {
	var out []Action
	for _, a := range m.state.actions {
		if a.RequestID == requestID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) GetAction(ctx context.Context, requestID, actionID int64) (Action, error) {
	for _, a := range m.state.actions {
		if a.RequestID == requestID && a.ID == actionID {
			return a, nil
		}
	}
	return Action{}, ErrActionNotFound
}

func (m *memStore) GetSignature(ctx context.Context, userID int64) ([]byte, error) {
	return m.state.signatures[userID], nil
}

func (m *memStore) PutSignature(ctx context.Context, userID int64, image []byte) error {
	m.state.signatures[userID] = image
	return nil
}

type stubFinalizer struct {
	calls []eligibility.FinalizeInput
	err   error
}

func (f *stubFinalizer) Finalize(ctx context.Context, q querier.Querier, in eligibility.FinalizeInput) (eligibility.Eligibility, error) {
	if f.err != nil {
		return eligibility.Eligibility{}, f.err
	}
	f.calls = append(f.calls, in)
	return eligibility.Eligibility{ID: int64(len(f.calls)), CitizenID: in.CitizenID, EffectiveDate: in.EffectiveDate, IsActive: true}, nil
}

type sentNotification struct {
	userID int64
	kind   string
}

type notifierSpy struct {
	sent []sentNotification
}

func (n *notifierSpy) Notify(ctx context.Context, userID int64, kind, title, body string) error {
	n.sent = append(n.sent, sentNotification{userID: userID, kind: kind})
	return nil
}

// xorSealer is a reversible stand-in for the AES sealer.
type xorSealer struct{}

func (xorSealer) Encrypt(plain []byte) ([]byte, error) { return xor(plain), nil }
func (xorSealer) Decrypt(sealed []byte) ([]byte, error) { return xor(sealed), nil }

func xor(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ 0x5a
	}
	return out
}
