package render

import (
	"math"
	"sort"
)

const (
	spiralStep     = 0.1
	spiralSpacing  = 1.5
	maxSpiralSteps = 6000
	wordPadding    = 2.0
)

// placedWord is a word positioned on the cloud canvas. X and Y are the
// center of its bounding box, in points from the bottom left corner.
type placedWord struct {
	Word
	X, Y float64
	Size float64
	W, H float64
}

func (p placedWord) overlaps(o placedWord) bool {
	return math.Abs(p.X-o.X)*2 < p.W+o.W+wordPadding &&
		math.Abs(p.Y-o.Y)*2 < p.H+o.H+wordPadding
}

func (p placedWord) inside(width, height float64) bool {
	return p.X-p.W/2 >= 0 && p.X+p.W/2 <= width &&
		p.Y-p.H/2 >= 0 && p.Y+p.H/2 <= height
}

// measureFunc returns the width and height in points of text set at size.
type measureFunc func(text string, size float64) (w, h float64)

// layoutWords places words on an Archimedean spiral from the canvas center,
// heaviest first, with font sizes scaled between minSize and maxSize by
// weight. Words that find no free spot are dropped.
func layoutWords(words []Word, width, height, minSize, maxSize float64, measure measureFunc) []placedWord {
	if len(words) == 0 || width <= 0 || height <= 0 {
		return nil
	}

	ordered := make([]Word, len(words))
	copy(ordered, words)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Weight > ordered[j].Weight })

	top := ordered[0].Weight
	if top <= 0 {
		top = 1
	}

	aspect := height / width
	cx, cy := width/2, height/2
	placed := make([]placedWord, 0, len(ordered))

	for _, word := range ordered {
		size := minSize + (maxSize-minSize)*math.Max(word.Weight, 0)/top
		w, h := measure(word.Text, size)
		candidate := placedWord{Word: word, Size: size, W: w, H: h}

		for step := 0; step < maxSpiralSteps; step++ {
			theta := float64(step) * spiralStep
			r := spiralSpacing * theta
			candidate.X = cx + r*math.Cos(theta)
			candidate.Y = cy + r*math.Sin(theta)*aspect
			if !candidate.inside(width, height) {
				continue
			}
			if !collides(candidate, placed) {
				placed = append(placed, candidate)
				break
			}
		}
	}
	return placed
}

func collides(candidate placedWord, placed []placedWord) bool {
	for _, p := range placed {
		if candidate.overlaps(p) {
			return true
		}
	}
	return false
}
