package server

import (
	"fmt"
	"strconv"
	"strings"

	internalstrings "github.com/amonks/taskboard/internal/strings"
)

// DefaultHost and DefaultPort are used when no address is configured.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 5000
)

// ResolveAddr picks the listen address: the flag value, then the
// configured value, then DefaultHost:DefaultPort. A bare port number binds
// to DefaultHost.
func ResolveAddr(flagAddr, configAddr string) (string, error) {
	if !internalstrings.IsBlank(flagAddr) {
		return normalizeAddr(flagAddr)
	}
	if !internalstrings.IsBlank(configAddr) {
		return normalizeAddr(configAddr)
	}
	return fmt.Sprintf("%s:%d", DefaultHost, DefaultPort), nil
}

func normalizeAddr(addr string) (string, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return "", fmt.Errorf("address is required")
	}
	if strings.Contains(trimmed, ":") {
		return trimmed, nil
	}
	port, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid port %q", trimmed)
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}
	return fmt.Sprintf("%s:%d", DefaultHost, port), nil
}
