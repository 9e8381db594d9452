package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lox/bookingforecast/internal/forecast"
)

// Registry holds only the forecast run collectors so the textfile export
// carries no Go runtime series.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	RecordsRead = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingforecast_records_read_total",
			Help: "Booking records read from input datasets",
		},
		[]string{"dataset"},
	)

	RecordsExcluded = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingforecast_records_excluded_total",
			Help: "Validation records excluded from scoring",
		},
		[]string{"reason"},
	)

	ProfileEntries = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookingforecast_profile_entries",
			Help: "Keys in each training profile",
		},
		[]string{"profile"},
	)

	TotalAbsoluteError = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookingforecast_total_absolute_error",
			Help: "Summed absolute error over scored validation records",
		},
		[]string{"model"},
	)

	MASE = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookingforecast_mase",
			Help: "Total model error relative to the naive forecast",
		},
		[]string{"model"},
	)

	RunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingforecast_runs_total",
			Help: "Forecast evaluation runs by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveResult records profile sizes, exclusions and scores from a run.
// A partial result without an evaluation only records the first two.
func ObserveResult(res *forecast.Result) {
	if res == nil {
		return
	}
	if res.Profiles != nil {
		ProfileEntries.WithLabelValues("remaining_demand").Set(float64(res.Profiles.RemainingDemand.Len()))
		ProfileEntries.WithLabelValues("booking_rate").Set(float64(res.Profiles.BookingRate.Len()))
	}
	for reason, n := range res.ExclusionCounts() {
		RecordsExcluded.WithLabelValues(string(reason)).Add(float64(n))
	}

	e := res.Evaluation
	if e == nil {
		return
	}
	TotalAbsoluteError.WithLabelValues("naive").Set(e.TotalErrorNaive)
	TotalAbsoluteError.WithLabelValues("additive").Set(e.TotalErrorAdditive)
	TotalAbsoluteError.WithLabelValues("multiplicative").Set(e.TotalErrorMultiplicative)
	MASE.WithLabelValues("additive").Set(e.MASEAdditive)
	MASE.WithLabelValues("multiplicative").Set(e.MASEMultiplicative)
}

// WriteTextfile writes all collectors in the node exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
