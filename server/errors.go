package server

import (
	"errors"
	"net/http"

	"github.com/mohiawrai2609/commant-center/llm"
)

// classifyError maps relay error types onto HTTP statuses for the JSON error
// envelope. The vendor status is passed through verbatim for upstream
// rejections so the UI can show the real cause.
func classifyError(err error) (status int, msg, detail string) {
	if errors.Is(err, llm.ErrNoCredential) {
		return http.StatusUnauthorized, "no API credential configured", ""
	}

	if errors.Is(err, llm.ErrNoCandidates) {
		return http.StatusInternalServerError, "model registry misconfigured", err.Error()
	}

	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		code := upstream.Status
		if code < 400 || code > 599 {
			code = http.StatusBadGateway
		}
		return code, "upstream rejected request", upstream.Detail
	}

	var timeout *llm.TimeoutError
	if errors.As(err, &timeout) {
		return http.StatusGatewayTimeout, "relay call timed out", timeout.Error()
	}

	var network *llm.NetworkError
	if errors.As(err, &network) {
		return http.StatusBadGateway, "upstream unreachable", network.Error()
	}

	var exhausted *llm.ExhaustedError
	if errors.As(err, &exhausted) {
		return http.StatusTooManyRequests, "all models exhausted, try again shortly", exhausted.Error()
	}

	return http.StatusInternalServerError, "internal error", err.Error()
}
