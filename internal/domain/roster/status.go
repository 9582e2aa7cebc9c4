package roster

// PositionStatus is the read projection of one position requirement's
// coverage on a shift instance.
type PositionStatus struct {
	Position      string `json:"position"`
	RequiredCount int    `json:"required_count"`
	IdealCount    int    `json:"ideal_count"`
	AssignedCount int    `json:"assigned_count"`
}

func (s PositionStatus) Satisfied() bool {
	return s.AssignedCount >= s.RequiredCount
}

// LanguageStatus is the read projection of one language requirement's
// coverage: distinct active assignees speaking the language.
type LanguageStatus struct {
	Language      string `json:"language"`
	RequiredCount int    `json:"required_count"`
	ActualCount   int    `json:"actual_count"`
}

func (s LanguageStatus) Satisfied() bool {
	return s.ActualCount >= s.RequiredCount
}
