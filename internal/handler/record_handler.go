package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/parisxmas/examapi/internal/middleware"
	"github.com/parisxmas/examapi/internal/models"
	"github.com/parisxmas/examapi/internal/service"
)

type RecordService interface {
	Kind() string
	Create(ctx context.Context, doc models.Document) (models.Document, error)
	List(ctx context.Context) ([]models.Document, error)
}

// RecordHandler serves create and list for one resource. Every failure is
// answered with 400 and the error text.
type RecordHandler struct {
	svc       RecordService
	log       *zap.Logger
	bodyLimit int64
}

func NewRecordHandler(svc RecordService, log *zap.Logger, bodyLimit int64) *RecordHandler {
	return &RecordHandler{svc: svc, log: log.With(zap.String("kind", svc.Kind())), bodyLimit: bodyLimit}
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(w, r, h.bodyLimit)
	if err != nil {
		h.fail(w, r, "decode", err)
		return
	}
	created, err := h.svc.Create(r.Context(), doc)
	if err != nil {
		h.fail(w, r, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *RecordHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	level := zap.WarnLevel
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		level = zap.InfoLevel
	}
	h.log.Log(level, "request rejected",
		zap.String("op", op),
		zap.Error(err),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
	)
	writeError(w, http.StatusBadRequest, err.Error())
}
