package explorer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	profiledColumns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sheet_analyzer",
		Name:      "profiled_columns_total",
		Help:      "Columns profiled on sheet refresh.",
	})
	compiledQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sheet_analyzer",
		Name:      "compiled_queries_total",
		Help:      "Query trees compiled to filter expressions, by outcome.",
	}, []string{"outcome"})
	queryRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sheet_analyzer",
		Name:      "query_runs_total",
		Help:      "Filter expressions sent to the sheet, by outcome.",
	}, []string{"outcome"})
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
