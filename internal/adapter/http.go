package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-accounts/internal/config"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/utils"
	"github.com/MKhiriev/go-accounts/models"
)

const hashHeader = "HashSHA256"

type httpServerAdapter struct {
	client *utils.HTTPClient

	// hasher is nil when no hash key is configured.
	hasher *utils.Hasher

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP implementation of [ServerAdapter].
// It normalises and validates the base URL from cfg.HTTPAddress. When hashKey
// is non-empty every command body is signed with the HashSHA256 header.
func NewHTTPServerAdapter(cfg config.Adapter, hashKey string, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	a := &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}
	if hashKey != "" {
		a.hasher = utils.NewHasher(hashKey)
	}

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Send implements [ServerAdapter]. It POSTs cmd.Data to
// /api/commands/{cmd}/{method}. Command failures come back as a reply with a
// non-2xx status and are returned without error.
func (h *httpServerAdapter) Send(ctx context.Context, cmd models.Command) (models.Reply, error) {
	req := h.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"cmd":    cmd.Cmd,
			"method": cmd.Method,
		})

	body := []byte(cmd.Data)
	if len(body) > 0 {
		req.SetBody(body)
	}
	if h.hasher != nil {
		req.SetHeader(hashHeader, h.hasher.SumHex(body))
	}

	resp, err := req.Post("/api/commands/{cmd}/{method}")
	if err != nil {
		return models.Reply{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var reply models.Reply
	if jsonErr := json.Unmarshal(resp.Body(), &reply); jsonErr == nil && (reply.Error != nil || !resp.IsError()) {
		return reply, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Reply{}, err
	}

	return models.Reply{}, fmt.Errorf("decode reply: unexpected body %q", resp.Body())
}

// Close implements [ServerAdapter].
func (h *httpServerAdapter) Close() error {
	return nil
}
