package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/services"
)

const (
	signatureHeader      = "X-HubSpot-Signature-v3"
	timestampHeader      = "X-HubSpot-Request-Timestamp"
	maxSignatureAge      = 5 * time.Minute
	maxWebhookBodyLength = 1 << 20
)

// HubSpotSignature verifies v3 request signatures. An empty secret disables
// verification.
func HubSpotSignature(secret string, now func() time.Time) func(http.Handler) http.Handler {
	if secret == "" {
		log.Printf("[WEBHOOK] HUBSPOT_CLIENT_SECRET not set; webhook signatures are not verified")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			millis, err := strconv.ParseInt(r.Header.Get(timestampHeader), 10, 64)
			if err != nil || now().Sub(time.UnixMilli(millis)).Abs() > maxSignatureAge {
				services.SendErrorResponse(w, "Stale or missing webhook timestamp", apperror.CodeAuthFailed, http.StatusUnauthorized, nil)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyLength))
			if err != nil {
				services.SendErrorResponse(w, "Unreadable webhook body", apperror.CodeValidation, http.StatusBadRequest, nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			expected := SignV3(secret, r.Method, requestURL(r), body, r.Header.Get(timestampHeader))
			if !hmac.Equal([]byte(expected), []byte(r.Header.Get(signatureHeader))) {
				services.SendErrorResponse(w, "Invalid webhook signature", apperror.CodeAuthFailed, http.StatusUnauthorized, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SignV3 computes base64(HMAC-SHA256(secret, method + uri + body + timestamp)).
func SignV3(secret, method, uri string, body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(method + uri))
	mac.Write(body)
	mac.Write([]byte(timestamp))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func requestURL(r *http.Request) string {
	scheme := "https"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS == nil && r.Header.Get("X-Forwarded-Host") == "" {
		scheme = "http"
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host + r.URL.RequestURI()
}
