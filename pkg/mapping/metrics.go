package mapping

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsMapped counts records copied between tabular data and objects.
	RowsMapped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablemap_rows_mapped_total",
		Help: "The total number of records copied between tabular data and objects",
	})
	// MappingErrors counts failed mapping operations.
	MappingErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablemap_mapping_errors_total",
		Help: "The total number of failed mapping operations",
	})
)
