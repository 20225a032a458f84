package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/go-accounts/internal/handler/dispatch"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/utils"
	"github.com/MKhiriev/go-accounts/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	cmd := models.Command{
		Cmd:    chi.URLParam(r, "cmd"),
		Method: chi.URLParam(r, "method"),
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBodySize))
	if err != nil {
		log.Err(err).Str("func", "*Handler.handleCommand").Msg("failed to read request body")

		reply := models.Reply{
			Data:  []byte("null"),
			Error: dispatch.ReplyError(errors.Join(dispatch.ErrBadPayload, err)),
		}
		utils.WriteJSON(w, reply, http.StatusBadRequest)
		return
	}
	if len(body) > 0 {
		cmd.Data = body
	}

	reply := h.dispatcher.Dispatch(r.Context(), cmd)

	status := http.StatusOK
	if reply.Error != nil {
		status = statusFromCode(reply.Error.Code)
	}

	if _, err = utils.WriteJSON(w, reply, status); err != nil {
		log.Err(err).Str("func", "*Handler.handleCommand").Msg("failed to write reply")
	}
}

func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
