package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/truthlens/proof-hub/logging"
)

var (
	VerificationSubmittedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "verification_submitted_total",
		Help: "Verification pipeline runs started.",
	})

	VerificationAnchoredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "verification_anchored_total",
		Help: "Verifications anchored on the ledger and persisted locally.",
	})

	AnchoringFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "anchoring_failure_total",
		Help: "Pipeline runs aborted because the ledger anchoring step failed.",
	})

	StoreUploadFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_upload_failure_total",
		Help: "Content-store uploads that failed and were absorbed as absent locators.",
	})

	ClassifierFallbackCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "classifier_fallback_total",
		Help: "Classifier calls replaced by the conservative default assessment.",
	})

	LookupDivergenceCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lookup_divergence_total",
		Help: "Hash lookups where the ledger has an entry but the local index does not.",
	})

	MetricsItems = []prometheus.Collector{
		VerificationSubmittedCounter,
		VerificationAnchoredCounter,
		AnchoringFailureCounter,
		StoreUploadFailureCounter,
		ClassifierFallbackCounter,
		LookupDivergenceCounter,
	}
)

const DefaultMetricsAddress = "0.0.0.0:9090"

type Metrics struct {
	httpAddress string
	registry    *prometheus.Registry
	httpServer  *http.Server
}

func NewMetrics(address string) *Metrics {
	if address == "" {
		address = DefaultMetricsAddress
	}
	return &Metrics{
		httpAddress: address,
		registry:    prometheus.NewRegistry(),
	}
}

func (m *Metrics) Start() {
	m.registry.MustRegister(MetricsItems...)
	go m.serve()
}

func (m *Metrics) serve() {
	router := mux.NewRouter()
	router.Path("/metrics").Handler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.httpServer = &http.Server{
		Addr:    m.httpAddress,
		Handler: router,
	}
	if err := m.httpServer.ListenAndServe(); err != nil {
		logging.Logger.Errorf("failed to listen and serve, err=%s", err.Error())
		panic(err)
	}
}
