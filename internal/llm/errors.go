package llm

import (
	"errors"
	"fmt"
	"strings"
)

const codeContentPolicy = "content_policy_violation"

// ConfigError reports missing or invalid client configuration. It is raised at
// the first remote call, before any request is sent.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Setting, e.Reason)
}

// ServiceError wraps a transport, HTTP or response-shape failure from the
// remote service.
type ServiceError struct {
	Op         string
	StatusCode int
	Code       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

func IsServiceError(err error) bool {
	var e *ServiceError
	return errors.As(err, &e)
}

// IsSafetyRejection reports whether err is the service refusing a prompt on
// content-policy grounds.
func IsSafetyRejection(err error) bool {
	var e *ServiceError
	if !errors.As(err, &e) {
		return false
	}
	if e.Code == codeContentPolicy {
		return true
	}
	return e.Err != nil && strings.Contains(strings.ToLower(e.Err.Error()), "safety")
}
