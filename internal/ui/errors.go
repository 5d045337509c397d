package ui

import (
	"strings"

	"github.com/five82/pricewatch/internal/state"
)

const fetchFailedHeadline = "Failed to fetch price data. Please try again later."

// classifyFetchError maps a fetch error message to a short label.
func classifyFetchError(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case msg == "":
		return ""
	case strings.Contains(lower, "connection refused"):
		return "CONNECTION REFUSED"
	case strings.Contains(lower, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(lower, "rate limited"), strings.Contains(lower, "status 429"):
		return "RATE LIMITED"
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return "TIMEOUT"
	case strings.HasPrefix(lower, "parse error"):
		return "BAD RESPONSE"
	case strings.Contains(lower, "status 5"):
		return "UPSTREAM UNAVAILABLE"
	default:
		return "ERROR"
	}
}

// bannerText builds the error banner line for vm.
func bannerText(vm state.ViewModel) string {
	if vm.ErrorMessage == "" {
		return ""
	}
	text := fetchFailedHeadline + " (" + vm.ErrorMessage + ")"
	if vm.HasSnapshot() {
		text += " Showing last known price."
	}
	return text
}
