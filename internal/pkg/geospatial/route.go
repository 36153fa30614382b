package geospatial

// NearestNeighborRoute orders points into a visiting sequence using the
// greedy nearest-neighbor heuristic: starting from (lat, lng), repeatedly
// visit the closest unvisited point. Distance is the Haversine great-circle
// ground distance, so two points close in degrees but far on the ground sort
// correctly near the poles. Ties are broken by input order, which keeps the
// result deterministic for identical inputs.
//
// The returned slice is a permutation of the indices of points: every input
// index appears exactly once. O(n²); fine for the tens-to-hundreds of points
// a single map holds. Not an optimal tour.
func NearestNeighborRoute(lat, lng float64, points [][2]float64) []int {
	if len(points) == 0 {
		return []int{}
	}

	order := make([]int, 0, len(points))
	visited := make([]bool, len(points))
	curLat, curLng := lat, lng

	for len(order) < len(points) {
		best := -1
		bestDist := 0.0
		for i, p := range points {
			if visited[i] {
				continue
			}
			d := Haversine(curLat, curLng, p[0], p[1])
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		visited[best] = true
		order = append(order, best)
		curLat, curLng = points[best][0], points[best][1]
	}

	return order
}

// PathDistance returns the total ground distance in meters of walking from
// (lat, lng) through points in the given order.
func PathDistance(lat, lng float64, points [][2]float64) float64 {
	total := 0.0
	curLat, curLng := lat, lng
	for _, p := range points {
		total += Haversine(curLat, curLng, p[0], p[1])
		curLat, curLng = p[0], p[1]
	}
	return total
}
