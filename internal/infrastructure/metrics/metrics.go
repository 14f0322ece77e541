package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	UploadURLIssued   = "upload_url_issued_total"
	UploadURLFailed   = "upload_url_failed_total"
	UploadURLRejected = "upload_url_rejected_total"
	UploadEventDrop   = "upload_event_dropped_total"
	AppRequests       = "app_requests_total"
)

// NewCounter registers the counter vec on the default registry, so it must
// be called once per process.
func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uploadurl",
			Name:      "general_counters",
		},
		[]string{"result"})
}
