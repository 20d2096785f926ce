package http

const (
	CodeUnknown       = "UNKNOWN"
	CodeInvalidJSON   = "INVALID_JSON"
	CodeRouteNotFound = "ROUTE_NOT_FOUND"
)
