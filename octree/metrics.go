package octree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	queryKindLabel = "kind"

	queryKindFrustum = "frustum"
	queryKindAABB    = "aabb"
)

var (
	octreeQueryCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree_query_count",
		Help: "The number of octree queries.",
	}, []string{queryKindLabel})

	octreeQueryHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree_query_hits",
		Help: "The number of payloads returned by octree queries.",
	}, []string{queryKindLabel})

	octreeReinsertCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "octree_reinsert_count",
		Help: "The number of nodes re-homed after moving.",
	})

	octreeReclaimedCells = promauto.NewCounter(prometheus.CounterOpts{
		Name: "octree_reclaimed_cells",
		Help: "The number of empty cells reclaimed by clean passes.",
	})
)

func instrumentQuery(kind string, hits int) {
	labels := prometheus.Labels{queryKindLabel: kind}
	octreeQueryCount.With(labels).Inc()
	octreeQueryHits.With(labels).Add(float64(hits))
}

func instrumentReinsert() {
	octreeReinsertCount.Inc()
}

func instrumentReclaimed(cells int) {
	octreeReclaimedCells.Add(float64(cells))
}
