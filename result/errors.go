package result

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
)

// ErrorCategory classifies a probe outcome for summaries and exports.
type ErrorCategory string

const (
	CategoryOK                ErrorCategory = "ok"
	CategoryRedirect          ErrorCategory = "3xx"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	CategoryTLS               ErrorCategory = "tls"
	CategoryInvalidURL        ErrorCategory = "invalid_url"
	CategoryCanceled          ErrorCategory = "canceled"
	CategoryUnknown           ErrorCategory = "unknown"
)

// ClassifyError determines why a probe could not obtain an HTTP status.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	if errors.Is(err, context.Canceled) {
		return CategoryCanceled
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	var certErr *tls.CertificateVerificationError
	var unknownAuth x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) || errors.As(err, &unknownAuth) ||
		errors.As(err, &hostErr) || errors.As(err, &recordErr) {
		return CategoryTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" && strings.Contains(opErr.Error(), "connection refused") {
			return CategoryConnectionRefused
		}
		if opErr.Timeout() {
			return CategoryTimeout
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		switch {
		case urlErr.Op == "parse":
			return CategoryInvalidURL
		case urlErr.Timeout():
			return CategoryTimeout
		case urlErr.Err != nil && strings.Contains(urlErr.Err.Error(), "unsupported protocol scheme"):
			return CategoryInvalidURL
		}
	}

	return CategoryUnknown
}

// CategoryOf classifies a Status. Successful probes are bucketed by status
// class, unreachable ones keep their failure reason.
func CategoryOf(s Status) ErrorCategory {
	switch s.Kind {
	case KindUnreachable:
		if s.Reason == "" {
			return CategoryUnknown
		}
		return s.Reason
	case KindSuccess:
		switch {
		case s.Code >= 500:
			return Category5xx
		case s.Code >= 400:
			return Category4xx
		case s.Code >= 300:
			return CategoryRedirect
		default:
			return CategoryOK
		}
	default:
		return CategoryUnknown
	}
}

// FormatCategory returns a human-readable label for a category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryOK:
		return "OK"
	case CategoryRedirect:
		return "Redirects (3xx)"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case CategoryTLS:
		return "TLS Errors"
	case CategoryInvalidURL:
		return "Invalid URLs"
	case CategoryCanceled:
		return "Canceled"
	default:
		return "Other Errors"
	}
}

// CategoryOrder is the display order for summaries, most to least actionable.
var CategoryOrder = []ErrorCategory{
	Category4xx,
	Category5xx,
	CategoryTimeout,
	CategoryDNSFailure,
	CategoryConnectionRefused,
	CategoryTLS,
	CategoryInvalidURL,
	CategoryCanceled,
	CategoryUnknown,
	CategoryRedirect,
	CategoryOK,
}

// CountByCategory tallies results per category.
func CountByCategory(results []StatusResult) map[ErrorCategory]int {
	counts := make(map[ErrorCategory]int)
	for _, res := range results {
		counts[CategoryOf(res.Status)]++
	}
	return counts
}
