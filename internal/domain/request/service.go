package request

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pts/internal/domain/apperr"
	"pts/internal/domain/auth"
	"pts/internal/domain/eligibility"
	"pts/internal/domain/notifications"
	"pts/internal/platform/querier"
)

// Finalizer opens the rate eligibility of a fully approved request on the caller's transaction.
type Finalizer interface {
	Finalize(ctx context.Context, q querier.Querier, in eligibility.FinalizeInput) (eligibility.Eligibility, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, kind, title, body string) error
}

// Sealer protects signature snapshots at rest.
type Sealer interface {
	Encrypt(plain []byte) ([]byte, error)
	Decrypt(sealed []byte) ([]byte, error)
}

type Observer interface {
	RecordApproval(failed bool)
}

type Service struct {
	store     StoreAPI
	finalizer Finalizer
	notifier  Notifier
	sealer    Sealer
	observer  Observer
	log       *zap.Logger
}

type Option func(*Service)

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }
func WithSealer(sl Sealer) Option    { return func(s *Service) { s.sealer = sl } }
func WithObserver(o Observer) Option { return func(s *Service) { s.observer = o } }

func NewService(store StoreAPI, finalizer Finalizer, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{store: store, finalizer: finalizer, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (Request, error) {
	citizenID := strings.TrimSpace(in.CitizenID)
	if citizenID == "" {
		citizenID = actor.CitizenID
	}
	if citizenID == "" {
		return Request{}, apperr.Validation("citizen id is required")
	}
	if in.RequestedAmount != nil && in.RequestedAmount.IsNegative() {
		return Request{}, apperr.Validation("requested amount must not be negative")
	}
	requestType := strings.TrimSpace(in.RequestType)
	if requestType == "" {
		requestType = "NEW"
	}
	return s.store.CreateRequest(ctx, Request{
		UserID:          actor.UserID,
		CitizenID:       citizenID,
		PersonnelType:   strings.TrimSpace(in.PersonnelType),
		RequestType:     requestType,
		RequestedAmount: in.RequestedAmount,
		EffectiveDate:   in.EffectiveDate,
		ProfessionCode:  strings.TrimSpace(in.ProfessionCode),
		WorkAttributes:  in.WorkAttributes,
		SubmissionData:  in.SubmissionData,
		Status:          StatusDraft,
		CurrentStep:     int(auth.FirstStep),
	})
}

func (s *Service) Get(ctx context.Context, id int64) (Request, error) {
	return s.store.GetRequest(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Request, error) {
	return s.store.ListRequests(ctx, f)
}

// ListPending returns the requests waiting at the step the actor's role approves.
func (s *Service) ListPending(ctx context.Context, actor auth.Actor, limit, offset int) ([]Request, error) {
	step, ok := auth.StepForRole(actor.Role)
	if !ok {
		return nil, apperr.Forbidden("role %s approves no step", actor.Role)
	}
	return s.store.ListRequests(ctx, ListFilter{Status: StatusPending, Step: int(step), Limit: limit, Offset: offset})
}

func (s *Service) ListActions(ctx context.Context, requestID int64) ([]Action, error) {
	if _, err := s.store.GetRequest(ctx, requestID); err != nil {
		return nil, err
	}
	return s.store.ListActions(ctx, requestID)
}

// ActionSignature returns the decrypted signature image snapshotted on one action.
func (s *Service) ActionSignature(ctx context.Context, requestID, actionID int64) ([]byte, error) {
	a, err := s.store.GetAction(ctx, requestID, actionID)
	if err != nil {
		return nil, err
	}
	if len(a.SignatureSnapshot) == 0 {
		return nil, apperr.NotFound("signature snapshot")
	}
	if s.sealer == nil {
		return a.SignatureSnapshot, nil
	}
	return s.sealer.Decrypt(a.SignatureSnapshot)
}

func (s *Service) SaveSignature(ctx context.Context, actor auth.Actor, image []byte) error {
	if len(image) == 0 {
		return apperr.Validation("signature image is empty")
	}
	return s.store.PutSignature(ctx, actor.UserID, image)
}

func (s *Service) Submit(ctx context.Context, id int64, actor auth.Actor) (Request, error) {
	return s.apply(ctx, id, actor, ActionSubmit, func(r Request) (Transition, error) { return Submit(r, actor) })
}

func (s *Service) Approve(ctx context.Context, id int64, actor auth.Actor, comment string) (Request, error) {
	return s.apply(ctx, id, actor, ActionApprove, func(r Request) (Transition, error) { return Approve(r, actor, comment) })
}

func (s *Service) Reject(ctx context.Context, id int64, actor auth.Actor, comment string) (Request, error) {
	return s.apply(ctx, id, actor, ActionReject, func(r Request) (Transition, error) { return Reject(r, actor, comment) })
}

func (s *Service) Return(ctx context.Context, id int64, actor auth.Actor, comment string) (Request, error) {
	return s.apply(ctx, id, actor, ActionReturn, func(r Request) (Transition, error) { return Return(r, actor, comment) })
}

func (s *Service) Cancel(ctx context.Context, id int64, actor auth.Actor) (Request, error) {
	return s.apply(ctx, id, actor, ActionCancel, func(r Request) (Transition, error) { return Cancel(r, actor) })
}

// BatchApprove approves each id in its own transaction and partitions the outcome.
func (s *Service) BatchApprove(ctx context.Context, ids []int64, actor auth.Actor, comment string) (BatchResult, error) {
	step, ok := auth.StepForRole(actor.Role)
	if !ok || !auth.IsBatchStep(step) {
		return BatchResult{}, ErrBatchRole
	}

	result := BatchResult{Success: []int64{}, Failed: []BatchFailure{}}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		if _, err := s.Approve(ctx, id, actor, comment); err != nil {
			s.log.Warn("batch approve item failed", zap.Int64("requestId", id), zap.Error(err))
			result.Failed = append(result.Failed, BatchFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Success = append(result.Success, id)
	}

	s.log.Info("batch approve finished",
		zap.Int("step", int(step)),
		zap.Int("success", len(result.Success)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// apply locks the request, runs the pure transition and persists it with its action row in one transaction.
func (s *Service) apply(ctx context.Context, id int64, actor auth.Actor, action ActionType, transition func(Request) (Transition, error)) (Request, error) {
	var (
		t       Transition
		elig    *eligibility.Eligibility
		ownerID int64
	)
	err := s.store.WithinTx(ctx, func(tx StoreAPI) error {
		current, err := tx.LockRequest(ctx, id)
		if err != nil {
			return err
		}
		t, err = transition(current)
		if err != nil {
			return err
		}
		ownerID = current.UserID

		var snapshot []byte
		if t.Action == ActionSubmit || t.Action == ActionApprove {
			if snapshot, err = s.snapshotSignature(ctx, tx, actor.UserID); err != nil {
				return err
			}
		}

		if err := tx.UpdateRequestState(ctx, id, t.Next.Status, t.Next.CurrentStep); err != nil {
			return err
		}
		if _, err := tx.InsertAction(ctx, Action{
			RequestID:         id,
			ActorID:           actor.UserID,
			StepNo:            t.StepNo,
			Action:            t.Action,
			Comment:           t.Comment,
			SignatureSnapshot: snapshot,
		}); err != nil {
			return fmt.Errorf("record %s action: %w", t.Action, err)
		}

		if t.Finalize {
			created, err := s.finalize(ctx, tx, t.Next)
			if err != nil {
				return err
			}
			elig = &created
		}
		return nil
	})
	if s.observer != nil && action != ActionSubmit && action != ActionCancel {
		s.observer.RecordApproval(err != nil)
	}
	if err != nil {
		return Request{}, err
	}

	fields := []zap.Field{
		zap.Int64("requestId", id),
		zap.String("action", string(t.Action)),
		zap.Int("step", t.StepNo),
		zap.String("status", string(t.Next.Status)),
		zap.Int64("actorId", actor.UserID),
	}
	if elig != nil {
		fields = append(fields, zap.Int64("eligibilityId", elig.ID))
	}
	s.log.Info("request transition", fields...)
	s.notify(ctx, ownerID, t)
	return t.Next, nil
}

func (s *Service) snapshotSignature(ctx context.Context, tx StoreAPI, userID int64) ([]byte, error) {
	image, err := tx.GetSignature(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load signature: %w", err)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w for user %d", ErrSignatureMissing, userID)
	}
	if s.sealer == nil {
		return image, nil
	}
	return s.sealer.Encrypt(image)
}

func (s *Service) finalize(ctx context.Context, tx StoreAPI, r Request) (eligibility.Eligibility, error) {
	if s.finalizer == nil {
		return eligibility.Eligibility{}, errors.New("request finalizer is not configured")
	}
	if r.RequestedAmount == nil || r.EffectiveDate == nil {
		return eligibility.Eligibility{}, apperr.Validation("approved request %d lacks amount or effective date", r.ID)
	}
	created, err := s.finalizer.Finalize(ctx, tx.Querier(), eligibility.FinalizeInput{
		RequestID:       r.ID,
		CitizenID:       r.CitizenID,
		ProfessionCode:  r.ProfessionCode,
		RequestedAmount: *r.RequestedAmount,
		EffectiveDate:   *r.EffectiveDate,
	})
	if err != nil {
		return eligibility.Eligibility{}, fmt.Errorf("finalize request %d: %w", r.ID, err)
	}
	return created, nil
}

// notify is best effort; the transition has already committed.
func (s *Service) notify(ctx context.Context, ownerID int64, t Transition) {
	if s.notifier == nil || t.Action == ActionCancel {
		return
	}
	kind, title := notificationFor(t)
	body := fmt.Sprintf("คำขอเลขที่ %d สถานะ %s", t.Next.ID, t.Next.Status)
	if t.Comment != "" {
		body += ": " + t.Comment
	}
	if err := s.notifier.Notify(ctx, ownerID, kind, title, body); err != nil {
		s.log.Warn("request notification failed", zap.Int64("requestId", t.Next.ID), zap.Error(err))
	}
}

func notificationFor(t Transition) (string, string) {
	switch {
	case t.Action == ActionSubmit:
		return notifications.TypeRequestSubmitted, "ส่งคำขอเรียบร้อย"
	case t.Action == ActionApprove && t.Finalize:
		return notifications.TypeRequestApproved, "คำขอได้รับอนุมัติ"
	case t.Action == ActionApprove:
		return notifications.TypeRequestStepApproved, fmt.Sprintf("คำขอผ่านการอนุมัติขั้นที่ %d", t.StepNo)
	case t.Action == ActionReject:
		return notifications.TypeRequestRejected, "คำขอไม่ได้รับอนุมัติ"
	default:
		return notifications.TypeRequestReturned, "คำขอถูกส่งกลับแก้ไข"
	}
}
