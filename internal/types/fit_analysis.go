package types

// FitAnalysis is the structured output of the ANALYZE task.
type FitAnalysis struct {
	MatchScore      int      `json:"match_score"`
	MatchingSkills  []string `json:"matching_skills"`
	MissingSkills   []string `json:"missing_skills"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}
