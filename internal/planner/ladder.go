package planner

// Ladder maps a tool name to its designated successor for one downgrade
// direction. The ladders are data so a substitution step is a plain lookup.
type Ladder map[string]string

// Next returns the successor for a tool, if the ladder has one.
func (l Ladder) Next(tool string) (string, bool) {
	next, ok := l[tool]
	return next, ok
}

// CheaperVideo walks video tools toward the cheapest tier.
func CheaperVideo() Ladder {
	return Ladder{
		"runway_gen4_turbo": "luma_ray",
		"minimax_hailuo":    "luma_ray",
		"luma_ray":          "pika_v2",
		"pika_v2":           "wan_i2v",
		"wan_i2v":           "ken_burns",
	}
}

// CheaperImage walks image tools toward the cheapest tier.
func CheaperImage() Ladder {
	return Ladder{
		"midjourney": "flux_pro",
		"flux_pro":   "flux_dev",
		"flux_dev":   "flux_schnell",
		"seedream4":  "flux_dev",
		"ideogram":   "flux_schnell",
	}
}

// FasterVideo walks video tools toward the lowest latency.
func FasterVideo() Ladder {
	return Ladder{
		"minimax_hailuo":    "luma_ray",
		"luma_ray":          "runway_gen4_turbo",
		"pika_v2":           "runway_gen4_turbo",
		"runway_gen4_turbo": "wan_i2v",
		"wan_i2v":           "ken_burns",
	}
}

// FasterImage walks image tools toward the lowest latency.
func FasterImage() Ladder {
	return Ladder{
		"midjourney": "flux_dev",
		"flux_pro":   "flux_dev",
		"seedream4":  "flux_dev",
		"flux_dev":   "flux_schnell",
		"ideogram":   "flux_schnell",
	}
}
