package admin

import "math"

// FillActivityGaps returns one point per day from from to to inclusive,
// taking counts from points and zero for days the backend left out.
// Points outside the window are dropped.
func FillActivityGaps(points []*ActivityPoint, from, to Date) []*ActivityPoint {
	if from.IsZero() || to.IsZero() || to.Before(from.Time) {
		return []*ActivityPoint{}
	}

	counts := make(map[string]int, len(points))
	for _, p := range points {
		if p != nil {
			counts[p.Date.String()] += p.Count
		}
	}

	var filled []*ActivityPoint
	for d := from; !d.After(to.Time); d = d.AddDays(1) {
		filled = append(filled, &ActivityPoint{Date: d, Count: counts[d.String()]})
	}
	return filled
}

// LastDays returns a transform that fills gaps over the n days ending at
// end. It fits fetch.Options.Transform for activity series.
func LastDays(n int, end Date) func([]*ActivityPoint) ([]*ActivityPoint, error) {
	return func(points []*ActivityPoint) ([]*ActivityPoint, error) {
		if n <= 0 {
			return []*ActivityPoint{}, nil
		}
		return FillActivityGaps(points, end.AddDays(-(n - 1)), end), nil
	}
}

// BreakdownPercentages recomputes each bucket's percentage from the counts,
// rounded to one decimal. An empty distribution yields zero percentages.
func BreakdownPercentages(d Distribution) Distribution {
	total := 0
	for _, b := range d {
		if b != nil {
			total += b.Count
		}
	}

	out := make(Distribution, len(d))
	for k, b := range d {
		bucket := &DistributionBucket{}
		if b != nil {
			bucket.Count = b.Count
		}
		if total > 0 {
			bucket.Percentage = round(float64(bucket.Count)*100/float64(total), 1)
		}
		out[k] = bucket
	}
	return out
}

// PercentageChange is the change from previous to current in percent,
// rounded to two decimals. Growth from zero counts as 100%.
func PercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return round((current-previous)*100/previous, 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
