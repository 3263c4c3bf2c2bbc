package service

import (
	"context"
	"time"

	"github.com/parisxmas/examapi/internal/models"
)

// Store persists documents of one kind.
type Store interface {
	Create(ctx context.Context, doc models.Document) (models.Document, error)
	FindAll(ctx context.Context) ([]models.Document, error)
}

// RecordService validates documents of one kind and passes them to a Store.
// Each call performs exactly one store operation.
type RecordService struct {
	kind    string
	store   Store
	newView func() any
	timeout time.Duration
}

func NewExamService(store Store, timeout time.Duration) *RecordService {
	return &RecordService{kind: "exam", store: store, timeout: timeout, newView: func() any { return new(models.Exam) }}
}

func NewUserService(store Store, timeout time.Duration) *RecordService {
	return &RecordService{kind: "user", store: store, timeout: timeout, newView: func() any { return new(models.User) }}
}

// Kind is the singular resource name, e.g. "exam".
func (s *RecordService) Kind() string {
	return s.kind
}

func (s *RecordService) Create(ctx context.Context, doc models.Document) (models.Document, error) {
	if doc == nil {
		doc = models.Document{}
	}
	if err := check(s.kind, doc, s.newView()); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.store.Create(ctx, doc)
}

// List returns all documents; an empty collection yields an empty, non-nil slice.
func (s *RecordService) List(ctx context.Context) ([]models.Document, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	docs, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

func (s *RecordService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
