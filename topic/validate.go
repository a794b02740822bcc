// Package topic validates MQTT topic names and filters and matches a filter
// against a name. It is deliberately stateless and keeps no subscription
// list; it only answers the two questions the wire
// protocol cares about — is this string legal, and does that filter match
// this name.
package topic

import "strings"

// ValidateName checks a PUBLISH topic name: non-empty, UTF-8 (the decoder
// already guarantees that for inbound strings), and free of the wildcard
// characters reserved for filters (MQTT-3.3.2-2, MQTT-4.7.1-1).
func ValidateName(name string) error {
	if name == "" {
		return errEmptyTopic
	}
	if strings.ContainsAny(name, "#+") {
		return errWildcardInName
	}
	return nil
}

// ValidateFilter checks a SUBSCRIBE/UNSUBSCRIBE topic filter: non-empty, and
// any `#` must be the final character of the final level, any `+` must
// occupy a whole level (MQTT-4.7.1-2, MQTT-4.7.1-3).
func ValidateFilter(filter string) error {
	if filter == "" {
		return errEmptyTopic
	}
	levels := strings.Split(filter, "/")
	for i, level := range levels {
		switch {
		case level == "#":
			if i != len(levels)-1 {
				return errMultiWildcardNotLast
			}
		case level == "+":
			// valid at any level
		case strings.ContainsAny(level, "#+"):
			return errWildcardNotWholeLevel
		}
	}
	return nil
}

// Matches reports whether filter matches name, applying `+` (single level)
// and `#` (remaining levels) wildcard semantics. Shared subscriptions and
// the leading-`$` exclusion from wildcard matching (MQTT-4.7.2-1) are
// handled by the caller, which knows whether name starts with `$`.
func Matches(filter, name string) bool {
	filterLevels := strings.Split(filter, "/")
	nameLevels := strings.Split(name, "/")

	i := 0
	for ; i < len(filterLevels); i++ {
		if filterLevels[i] == "#" {
			return true
		}
		if i >= len(nameLevels) {
			return false
		}
		if filterLevels[i] == "+" {
			continue
		}
		if filterLevels[i] != nameLevels[i] {
			return false
		}
	}
	return i == len(nameLevels)
}
