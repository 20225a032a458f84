package http

import (
	"bytes"
	"io"
	"net/http"
)

// hashHeader carries the hex-encoded HMAC-SHA256 of the request body.
const hashHeader = "HashSHA256"

// checkHashing rejects command bodies whose HashSHA256 header does not match
// the keyed digest of the body. It is a no-op when no hash key is configured.
func (h *Handler) checkHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.hasher == nil {
			next.ServeHTTP(w, r)
			return
		}

		h.logger.Debug().Str("func", "*Handler.checkHashing").Msg("checking hash begins")

		hash := r.Header.Get(hashHeader)
		if hash == "" {
			h.logger.Error().Str("func", "*Handler.checkHashing").Msg("missing hash header")
			http.Error(w, "Integrity check failed", http.StatusBadRequest)
			return
		}

		// read bytes from body
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBodySize))
		if err != nil {
			h.logger.Err(err).Str("func", "*Handler.checkHashing").Msg("failed to read request body")
			http.Error(w, "Invalid body", http.StatusBadRequest)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !h.hasher.Verify(body, hash) {
			h.logger.Error().Str("func", "*Handler.checkHashing").
				Str("hash from request", hash).
				Str("hashed body", h.hasher.SumHex(body)).
				Msg("hashes are not equal")
			http.Error(w, "Integrity check failed", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
