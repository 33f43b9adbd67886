package domain

// Status discriminates the variants of Resource.
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Resource is the caller-facing result of a movie lookup. Exactly one of
// Movies (StatusSuccess) or Message (StatusError) is meaningful; a loading
// resource carries neither.
type Resource struct {
	Status  Status
	Movies  []Movie
	Message string
}

// Loading signals an in-flight lookup.
func Loading() Resource {
	return Resource{Status: StatusLoading}
}

// Success wraps an ordered result set.
func Success(movies []Movie) Resource {
	return Resource{Status: StatusSuccess, Movies: movies}
}

// Failure wraps an error message for display.
func Failure(message string) Resource {
	return Resource{Status: StatusError, Message: message}
}

// Done reports whether the resource is terminal.
func (r Resource) Done() bool {
	return r.Status == StatusSuccess || r.Status == StatusError
}
