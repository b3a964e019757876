package descriptor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var descriptorBuilds = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tablemap_descriptor_builds_total",
	Help: "The total number of struct descriptors built",
})
