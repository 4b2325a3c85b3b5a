package content

// PlacementLevel maps a placement test result to a starting level.
// A test with no questions places at the lowest level.
func PlacementLevel(correct, total int) Level {
	if total <= 0 {
		return LevelBand5
	}
	ratio := float64(correct) / float64(total)
	switch {
	case ratio <= 0.3:
		return LevelBand5
	case ratio <= 0.6:
		return LevelBand6
	case ratio <= 0.8:
		return LevelBand7
	default:
		return LevelBand8
	}
}
