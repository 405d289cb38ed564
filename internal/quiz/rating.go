package quiz

// Rating labels, coarsest to finest.
const (
	RatingMedicalGenius = "Medical Genius"
	RatingExpert        = "Expert"
	RatingProficient    = "Proficient"
	RatingNovice        = "Novice"
)

// Rating derives the qualitative label from a final score. Thresholds are
// inclusive: 90% of questions correct is already a Medical Genius.
func Rating(score, total int) string {
	if total <= 0 {
		return RatingNovice
	}

	ratio := float64(score) / float64(total)
	switch {
	case ratio >= 0.90:
		return RatingMedicalGenius
	case ratio >= 0.75:
		return RatingExpert
	case ratio >= 0.60:
		return RatingProficient
	default:
		return RatingNovice
	}
}
