// Package geometry provides the bounding-box and polygon math shared by the
// image-annotation exporters.
//
// All coordinates are pixel-space floats in the platform's convention: origin
// at the top-left corner, x growing right, y growing down. Polygons are ordered
// vertex lists; no winding direction is assumed.
package geometry

import "math"

// Point is a single polygon vertex as [x, y].
type Point = [2]float64

// PolygonToBBox returns the axis-aligned bounding box of points as
// (x, y, width, height). An empty point list yields all zeros.
func PolygonToBBox(points []Point) (x, y, w, h float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY := points[0][0], points[0][1]
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}
	return minX, minY, maxX - minX, maxY - minY
}

// PolygonArea computes the enclosed area via the shoelace formula. Polygons
// with fewer than three vertices have no area.
func PolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum float64
	for i, p := range points {
		q := points[(i+1)%len(points)]
		sum += p[0]*q[1] - q[0]*p[1]
	}
	return math.Abs(sum) / 2
}

// NormalizeBBox converts a pixel-space (x, y, width, height) box to the
// center-based normalized form used by YOLO, with every component in [0, 1].
// If either image dimension is not positive the result is all zeros; callers
// must treat that as a missing-dimension failure rather than emit the values.
func NormalizeBBox(x, y, w, h, imgW, imgH float64) (cx, cy, nw, nh float64) {
	if imgW <= 0 || imgH <= 0 {
		return 0, 0, 0, 0
	}
	return (x + w/2) / imgW, (y + h/2) / imgH, w / imgW, h / imgH
}

// FlattenPolygon returns the vertices as a flat [x1, y1, x2, y2, ...] list,
// the layout COCO segmentation entries expect.
func FlattenPolygon(points []Point) []float64 {
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p[0], p[1])
	}
	return flat
}
