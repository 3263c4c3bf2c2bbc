package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/examapi/internal/models"
)

type fakeStore struct {
	created  []models.Document
	docs     []models.Document
	err      error
	deadline bool
}

func (f *fakeStore) Create(ctx context.Context, doc models.Document) (models.Document, error) {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, doc)
	out := doc.Clone()
	out["_id"] = "65f000000000000000000001"
	return out, nil
}

func (f *fakeStore) FindAll(ctx context.Context) ([]models.Document, error) {
	_, f.deadline = ctx.Deadline()
	return f.docs, f.err
}

func TestExamCreateValid(t *testing.T) {
	store := &fakeStore{}
	svc := NewExamService(store, time.Second)

	out, err := svc.Create(context.Background(), models.Document{
		"title":           "Midterm",
		"durationMinutes": float64(90),
		"room":            "B12",
	})
	require.NoError(t, err)
	assert.Equal(t, "Midterm", out["title"])
	assert.Equal(t, "B12", out["room"])
	assert.Len(t, store.created, 1)
	assert.True(t, store.deadline)
}

func TestExamCreateRejected(t *testing.T) {
	cases := []struct {
		name string
		doc  models.Document
		want string
	}{
		{"nil body", nil, "title is required"},
		{"missing title", models.Document{"description": "x"}, "title is required"},
		{"empty title", models.Document{"title": ""}, "title is required"},
		{"title not a string", models.Document{"title": float64(5)}, "title has the wrong type: expected a string, got number"},
		{"fractional duration", models.Document{"title": "T", "durationMinutes": 1.5}, "durationMinutes has the wrong type: expected an integer"},
		{"zero duration", models.Document{"title": "T", "durationMinutes": float64(0)}, "durationMinutes must be at least 1"},
		{"negative marks", models.Document{"title": "T", "totalMarks": float64(-1)}, "totalMarks must be at least 0"},
		{"questions not array", models.Document{"title": "T", "questions": "all"}, "questions has the wrong type: expected an array"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := NewExamService(store, time.Second)

			_, err := svc.Create(context.Background(), tc.doc)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "exam", verr.Kind)
			assert.Contains(t, err.Error(), tc.want)
			assert.Empty(t, store.created, "rejected documents must not reach the store")
		})
	}
}

func TestUserCreateRules(t *testing.T) {
	svc := NewUserService(&fakeStore{}, 0)

	_, err := svc.Create(context.Background(), models.Document{"name": "Ada", "email": "ada@example.com", "role": "teacher"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), models.Document{"name": "Ada", "email": "not-an-email"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email address")

	_, err = svc.Create(context.Background(), models.Document{"name": "Ada", "email": "ada@example.com", "role": "owner"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role must be one of: student, teacher, admin")

	_, err = svc.Create(context.Background(), models.Document{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "email is required")
}

func TestCreateStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("server selection error: context deadline exceeded")}
	svc := NewExamService(store, time.Second)

	_, err := svc.Create(context.Background(), models.Document{"title": "Midterm"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server selection error")

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestList(t *testing.T) {
	t.Run("nil becomes empty", func(t *testing.T) {
		svc := NewExamService(&fakeStore{}, time.Second)
		docs, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})

	t.Run("passes documents through", func(t *testing.T) {
		store := &fakeStore{docs: []models.Document{{"title": "A"}, {"title": "B"}}}
		svc := NewExamService(store, time.Second)
		docs, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, store.docs, docs)
	})

	t.Run("no timeout configured", func(t *testing.T) {
		store := &fakeStore{}
		svc := NewUserService(store, 0)
		_, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.False(t, store.deadline)
	})

	t.Run("store error", func(t *testing.T) {
		svc := NewUserService(&fakeStore{err: errors.New("connection refused")}, time.Second)
		_, err := svc.List(context.Background())
		assert.EqualError(t, err, "connection refused")
	})
}
