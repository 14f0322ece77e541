package rest

const (
	// api
	RouteApi = "/api"

	RouteUpload = RouteApi + "/upload"

	// ops
	RouteHealth  = RouteApi + "/healthz"
	RouteMetrics = RouteApi + "/metrics"

	// web
	RouteLanding = "/"
)
