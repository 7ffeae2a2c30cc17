package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/member-store/internal/api/httpx"
	"github.com/baharkarakas/member-store/internal/api/validate"
	"github.com/baharkarakas/member-store/internal/errs"
	"github.com/baharkarakas/member-store/internal/services"
)

type MembersHandler struct {
	svc *services.MemberService
	log *slog.Logger
}

func NewMembersHandler(svc *services.MemberService, log *slog.Logger) *MembersHandler {
	return &MembersHandler{svc: svc, log: log}
}

type createMemberReq struct {
	MemberID string `json:"member_id" validate:"required,max=10"`
	Money    *int   `json:"money" validate:"required"`
}

type updateMemberReq struct {
	Money *int `json:"money" validate:"required"`
}

func (h *MembersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemberReq
	if !decode(w, r, &req) {
		return
	}
	m, err := h.svc.Register(r.Context(), req.MemberID, *req.Money)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, m)
}

func (h *MembersHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, m)
}

func (h *MembersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateMemberReq
	if !decode(w, r, &req) {
		return
	}
	n, err := h.svc.SetMoney(r.Context(), chi.URLParam(r, "id"), *req.Money)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

func (h *MembersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MembersHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", r.URL.Path, "kind", errs.KindOf(err).String(), "err", err)
	}
	httpx.WriteErr(w, err)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json", nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "invalid request", err)
		return false
	}
	return true
}
