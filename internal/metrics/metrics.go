// Package metrics computes summary values over a finished graph. All
// functions are pure; none mutate the graph.
package metrics

import (
	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/graph"
)

func NodeCount(g *graph.Graph) float64 {
	return float64(g.NodeCount())
}

func ConnectionCount(g *graph.Graph) float64 {
	return float64(g.ConnCount())
}

// VolumetricDensity is nodeCount / zoneVolume. Zero for an invalid zone.
func VolumetricDensity(g *graph.Graph, zone geom.AABB) float64 {
	v := zone.Volume()
	if v <= 0 {
		return 0
	}
	return float64(g.NodeCount()) / v
}

// AvgConnectionLength is the mean Euclidean connection length, 0 when the
// graph has no connections.
func AvgConnectionLength(g *graph.Graph) float64 {
	conns := g.Connections()
	if len(conns) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range conns {
		sum += g.Length(c)
	}
	return sum / float64(len(conns))
}

// BoundingVolume is the volume of the tightest axis-aligned box around
// actual node positions.
func BoundingVolume(g *graph.Graph) float64 {
	return geom.BoundsOf(g.Positions()).Volume()
}

// Compute assembles the metrics map attached to an exported snapshot.
func Compute(g *graph.Graph, zone geom.AABB) map[string]float64 {
	return map[string]float64{
		"node_count":       NodeCount(g),
		"connection_count": ConnectionCount(g),
		"density":          VolumetricDensity(g, zone),
		"avg_conn_length":  AvgConnectionLength(g),
		"bounding_volume":  BoundingVolume(g),
	}
}
