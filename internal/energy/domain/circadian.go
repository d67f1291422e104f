package domain

// circadianDefaults maps hour-of-day to a typical energy level on the 1-10
// scale. Used for new users with no history and as the per-hour fallback
// when a specific hour has no samples.
var circadianDefaults = [24]float64{
	0: 3, 1: 2, 2: 2, 3: 2, 4: 2, 5: 3,
	6: 5, 7: 6, 8: 7, 9: 8, 10: 8, 11: 8,
	12: 7, 13: 6, 14: 5, 15: 5, 16: 6, 17: 7,
	18: 7, 19: 6, 20: 5, 21: 4, 22: 4, 23: 3,
}

// CircadianDefault returns the default energy level for an hour of day.
func CircadianDefault(hour int) float64 {
	if hour < 0 || hour > 23 {
		return 5
	}
	return circadianDefaults[hour]
}
