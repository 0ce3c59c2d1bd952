// Package cluster groups users by the similarity of their course ratings.
package cluster

import (
	"math"
	"math/rand"
	"sort"
)

// Seed keeps assignments reproducible between runs over the same data
const Seed = 42

// Rating is one observed (user, course, rating) triple
type Rating struct {
	UserID   int64
	CourseID int64
	Rating   float64
}

// Matrix is a dense user x course rating table; unrated cells are zero
type Matrix struct {
	Users   []int64
	Courses []int64
	Rows    [][]float64
}

// BuildMatrix averages repeated ratings of the same course by the same user
func BuildMatrix(ratings []Rating) Matrix {
	userIdx := map[int64]int{}
	courseIdx := map[int64]int{}
	var users, courses []int64
	for _, r := range ratings {
		if _, ok := userIdx[r.UserID]; !ok {
			userIdx[r.UserID] = 0
			users = append(users, r.UserID)
		}
		if _, ok := courseIdx[r.CourseID]; !ok {
			courseIdx[r.CourseID] = 0
			courses = append(courses, r.CourseID)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	sort.Slice(courses, func(i, j int) bool { return courses[i] < courses[j] })
	for i, u := range users {
		userIdx[u] = i
	}
	for i, c := range courses {
		courseIdx[c] = i
	}

	sums := make([][]float64, len(users))
	counts := make([][]int, len(users))
	for i := range users {
		sums[i] = make([]float64, len(courses))
		counts[i] = make([]int, len(courses))
	}
	for _, r := range ratings {
		u, c := userIdx[r.UserID], courseIdx[r.CourseID]
		sums[u][c] += r.Rating
		counts[u][c]++
	}
	for u := range sums {
		for c := range sums[u] {
			if counts[u][c] > 0 {
				sums[u][c] /= float64(counts[u][c])
			}
		}
	}

	return Matrix{Users: users, Courses: courses, Rows: sums}
}

// ClusterCount picks k = min(maxK, 1 + users/10), never below 1
func ClusterCount(users, maxK int) int {
	k := 1 + users/10
	if k > maxK {
		k = maxK
	}
	if k > users {
		k = users
	}
	if k < 1 {
		k = 1
	}
	return k
}

// KMeans assigns each row to one of k clusters and returns the cluster index per row.
// Initial centroids are drawn from the rows with a fixed seed.
func KMeans(rows [][]float64, k, maxIterations int) []int {
	n := len(rows)
	if n == 0 {
		return nil
	}
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	if maxIterations < 1 {
		maxIterations = 1
	}

	rng := rand.New(rand.NewSource(Seed))
	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		centroids[i] = append([]float64(nil), rows[idx]...)
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, row := range rows {
			best := nearest(row, centroids)
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
		recompute(rows, assign, centroids)
	}
	return assign
}

func nearest(row []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		var d float64
		for j := range row {
			diff := row[j] - centroid[j]
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// recompute moves each centroid to the mean of its rows; empty clusters keep their centroid
func recompute(rows [][]float64, assign []int, centroids [][]float64) {
	dims := len(rows[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dims)
	}
	for i, row := range rows {
		c := assign[i]
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

// Groups turns an assignment into user id lists per cluster, dropping empty clusters
func Groups(users []int64, assign []int) [][]int64 {
	byCluster := map[int][]int64{}
	var order []int
	for i, c := range assign {
		if _, ok := byCluster[c]; !ok {
			order = append(order, c)
		}
		byCluster[c] = append(byCluster[c], users[i])
	}
	sort.Ints(order)
	groups := make([][]int64, 0, len(order))
	for _, c := range order {
		groups = append(groups, byCluster[c])
	}
	return groups
}
