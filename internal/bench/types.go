// Package bench evaluates the question-answering pipeline against a
// JSONL suite of graded cases: content inclusion, citations, quote
// counts, policy behavior and optional numeric extraction.
package bench

// MathCheck asks for a specific numeric value in the answer.
type MathCheck struct {
	Expected float64 `json:"expected"`
}

// PolicyExpect describes the expected policy behavior for one case.
type PolicyExpect struct {
	FlagsPresent []string   `json:"flags_present,omitempty"`
	FlagsAbsent  []string   `json:"flags_absent,omitempty"`
	MustAnswer   string     `json:"must_answer,omitempty"`
	QuotesMin    *int       `json:"quotes_min,omitempty"`
	QuotesMax    *int       `json:"quotes_max,omitempty"`
	MathCheck    *MathCheck `json:"math_check,omitempty"`
}

// Case is one graded benchmark question.
type Case struct {
	ID           string        `json:"id"`
	Question     string        `json:"question"`
	MustInclude  []string      `json:"must_include,omitempty"`
	MustExclude  []string      `json:"must_exclude,omitempty"`
	MustCite     []string      `json:"must_cite,omitempty"`
	PolicyExpect *PolicyExpect `json:"policy_expect,omitempty"`
}

// Components breaks a case score down by grading dimension.
type Components struct {
	Content   int `json:"content"`
	Citations int `json:"citations"`
	Quotes    int `json:"quotes"`
	Policy    int `json:"policy"`
	Math      int `json:"math,omitempty"`
}

// CaseResult is the graded outcome of one case.
type CaseResult struct {
	ID         string     `json:"id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Score      int        `json:"score"`
	Max        int        `json:"max"`
	Passed     bool       `json:"passed"`
	Components Components `json:"components"`
	Feedback   []string   `json:"feedback,omitempty"`
	Err        string     `json:"error,omitempty"`
}

// Summary aggregates a suite run. Rates are percentages rounded to
// one decimal.
type Summary struct {
	TotalTests   int     `json:"total_tests"`
	Passed       int     `json:"passed"`
	Failed       int     `json:"failed"`
	PassRate     float64 `json:"pass_rate"`
	TotalScore   int     `json:"total_score"`
	TotalMax     int     `json:"total_max"`
	OverallScore float64 `json:"overall_score"`
	Grade        string  `json:"grade"`
}

// Report is the full output document for a suite run.
type Report struct {
	Summary Summary      `json:"summary"`
	Results []CaseResult `json:"results"`
}
