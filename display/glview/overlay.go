package glview

import (
	"math/rand"

	"github.com/go-gl/gl/v2.1/gl"
)

// A stacked history of block assignments, one series per tracer.
type stackedSeries struct {
	series [][]float32
	colors [][3]float32
}

func makeStackedSeries(numSeries, histCount int) *stackedSeries {
	s := &stackedSeries{
		series: make([][]float32, numSeries),
		colors: make([][3]float32, numSeries),
	}

	for sIndex := 0; sIndex < numSeries; sIndex++ {
		s.series[sIndex] = make([]float32, histCount)
		s.colors[sIndex] = [3]float32{rand.Float32(), rand.Float32(), 1.0}
	}

	return s
}

// Clear series
func (s *stackedSeries) Clear() {
	for sIndex := range s.series {
		clear(s.series[sIndex])
	}
}

// Shift series values and append new value at the end.
func (s *stackedSeries) Append(seriesIndex int, val float32) {
	series := s.series[seriesIndex]
	if len(series) == 0 {
		return
	}
	copy(series, series[1:])
	series[len(series)-1] = val
}

// Get the stacked height of each history column scaled to fit rHeight.
func (s *stackedSeries) columnScale(x int, rHeight uint32) float32 {
	var sum float32
	for seriesIndex := range s.series {
		sum += s.series[seriesIndex][x]
	}
	if sum > 0.0 {
		return float32(rHeight) / sum
	}
	return 1.0
}

func (s *stackedSeries) Render(rY, rHeight uint32) {
	if len(s.series) == 0 {
		return
	}

	gl.LineWidth(1.0)
	gl.Begin(gl.LINES)
	for x := 0; x < len(s.series[0]); x++ {
		scale := s.columnScale(x, rHeight)

		y := float32(rY)
		for seriesIndex := range s.series {
			sH := s.series[seriesIndex][x] * scale
			gl.Color3fv(&s.colors[seriesIndex][0])
			gl.Vertex2f(float32(x), y)
			gl.Vertex2f(float32(x), y+sH)
			y += sH
		}
	}
	gl.End()
}
