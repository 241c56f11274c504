package prioritization

import (
	"github.com/google/uuid"

	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
)

// ClusterByAsset groups gaps by their asset. Buckets appear in the order
// their asset is first seen and keep the source ordering of their gaps,
// so flattening the clusters reproduces the original list.
func ClusterByAsset(gaps []*gap.Gap) []gap.AssetCluster {
	index := make(map[uuid.UUID]int, len(gaps))
	var clusters []gap.AssetCluster

	for _, g := range gaps {
		i, ok := index[g.AssetID]
		if !ok {
			i = len(clusters)
			index[g.AssetID] = i
			clusters = append(clusters, gap.AssetCluster{AssetID: g.AssetID})
		}
		clusters[i].Gaps = append(clusters[i].Gaps, g)
	}

	return clusters
}

// ClusterByType groups gaps by gap type with the same insertion-order
// guarantees as ClusterByAsset.
func ClusterByType(gaps []*gap.Gap) []gap.TypeCluster {
	index := make(map[gap.Type]int, len(gaps))
	var clusters []gap.TypeCluster

	for _, g := range gaps {
		i, ok := index[g.Type]
		if !ok {
			i = len(clusters)
			index[g.Type] = i
			clusters = append(clusters, gap.TypeCluster{Type: g.Type})
		}
		clusters[i].Gaps = append(clusters[i].Gaps, g)
	}

	return clusters
}
