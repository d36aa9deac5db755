package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PagesFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_search_pages_total",
		Help: "Total search API pages fetched",
	}, []string{"hashtag"})
	SearchErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "monitor_search_errors_total",
		Help: "Total search API failures",
	})
	PostsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_posts_created_total",
		Help: "Total posts created by ingestion",
	}, []string{"hashtag"})
	TrashSwept = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "monitor_trash_swept_rows_total",
		Help: "Total orphaned posts and authors removed by the trash sweep",
	})
)

func init() {
	prometheus.MustRegister(PagesFetched, SearchErrors, PostsCreated, TrashSwept)
}
