// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-accounts/internal/utils"
	"github.com/MKhiriev/go-accounts/models"
	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod is meant for [chi.Mux.MethodNotAllowed]. A path that is
// routed for other HTTP methods is answered as an unknown command (404)
// instead of chi's 405, so callers cannot probe which methods a route takes.
//
// Routes are matched with chi itself, so parameterised patterns such as
// /api/commands/{cmd}/{method} are handled.
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			router.ServeHTTP(w, r)
			return
		}

		utils.WriteJSON(w, models.Reply{
			Data: json.RawMessage("null"),
			Error: &models.ReplyError{
				Code:    models.CodeUnknownCommand,
				Message: r.Method + " " + r.URL.Path + " is not routed",
			},
		}, http.StatusNotFound)
	}
}
