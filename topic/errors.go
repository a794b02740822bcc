package topic

import "errors"

var (
	errEmptyTopic            = errors.New("topic: empty")
	errWildcardInName        = errors.New("topic: name must not contain wildcard characters")
	errMultiWildcardNotLast  = errors.New("topic: multi-level wildcard must be the last level")
	errWildcardNotWholeLevel = errors.New("topic: wildcard must occupy an entire level")
)
