package services

// NotFoundError means a referenced entity does not exist. Maps to HTTP 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ForbiddenError means the actor is authenticated but not authorized for the
// specific resource. Maps to HTTP 403.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// InvalidStateError means the request is well-formed and the resource exists,
// but a domain invariant would be violated. Maps to HTTP 400.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}
