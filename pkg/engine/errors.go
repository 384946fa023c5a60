package engine

// ValidationError reports a malformed or out-of-range request field. It is
// raised before any store access and is never retried.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// ForbiddenError reports a failed ownership or identity check. The message is
// deliberately generic on paths where revealing whether the record exists
// would leak another user's data.
type ForbiddenError struct {
	Reason string
}

func (e ForbiddenError) Error() string {
	if e.Reason == "" {
		return "memory item not found or access denied"
	}

	return e.Reason
}
