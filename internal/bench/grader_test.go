package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

func intPtr(n int) *int { return &n }

func resultWith(answer string, quotes []domain.Quote, docs, flags []string) domain.QueryResult {
	return domain.QueryResult{
		Answer: answer,
		Parsed: domain.ParsedAnswer{
			AnswerText:    answer,
			Quotes:        quotes,
			UsedDocuments: docs,
			PolicyFlags:   flags,
		},
	}
}

func TestGradeFullMarks(t *testing.T) {
	c := Case{
		ID:          "t1",
		Question:    "notice period?",
		MustInclude: []string{"60 days"},
		MustCite:    []string{"msa.pdf"},
	}
	result := resultWith(
		"The notice period is 60 days.",
		[]domain.Quote{{Text: "sixty (60) days", Source: "msa.pdf"}},
		[]string{"msa.pdf"},
		nil,
	)

	r := Grade(c, result)
	assert.Equal(t, 6, r.Score)
	assert.Equal(t, 6, r.Max)
	assert.True(t, r.Passed)
	assert.Empty(t, r.Feedback)
}

func TestGradePartialInclusion(t *testing.T) {
	c := Case{
		ID:          "t2",
		Question:    "termination terms?",
		MustInclude: []string{"60 days", "30 days"},
	}
	result := resultWith("Termination requires 60 days notice.", nil, nil, nil)

	r := Grade(c, result)
	assert.Equal(t, 1, r.Components.Content)
	require.Len(t, r.Feedback, 1)
	assert.Contains(t, r.Feedback[0], "30 days")
}

func TestGradeProhibitedTermZeroesContent(t *testing.T) {
	c := Case{
		ID:          "t3",
		Question:    "q",
		MustInclude: []string{"60 days"},
		MustExclude: []string{"guaranteed"},
	}
	result := resultWith("It is guaranteed to be 60 days.", nil, nil, nil)

	r := Grade(c, result)
	assert.Zero(t, r.Components.Content)
	assert.Contains(t, r.Feedback[0], "guaranteed")
}

func TestGradeCitationSubstringMatch(t *testing.T) {
	c := Case{ID: "t4", Question: "q", MustCite: []string{"msa"}}
	result := resultWith("ok",
		[]domain.Quote{{Text: "q", Source: "acme_MSA.pdf"}}, nil, nil)

	r := Grade(c, result)
	assert.Equal(t, 2, r.Components.Citations)
}

func TestGradeCitationFromUsedDocuments(t *testing.T) {
	c := Case{ID: "t5", Question: "q", MustCite: []string{"po.pdf"}}
	result := resultWith("ok", nil, []string{"po.pdf"}, nil)

	r := Grade(c, result)
	assert.Equal(t, 2, r.Components.Citations)
}

func TestGradeCitationMissing(t *testing.T) {
	c := Case{ID: "t6", Question: "q", MustCite: []string{"nda.pdf"}}
	result := resultWith("ok", []domain.Quote{{Text: "q", Source: "msa.pdf"}}, nil, nil)

	r := Grade(c, result)
	assert.Zero(t, r.Components.Citations)
	assert.Contains(t, r.Feedback[0], "nda.pdf")
}

func TestGradeTooManyQuotes(t *testing.T) {
	c := Case{
		ID:       "t7",
		Question: "q",
		PolicyExpect: &PolicyExpect{
			QuotesMax: intPtr(3),
		},
	}
	quotes := []domain.Quote{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}}
	result := resultWith("ok", quotes, nil, nil)

	r := Grade(c, result)
	assert.Zero(t, r.Components.Quotes)
	assert.Contains(t, r.Feedback[0], "Too many quotes")
}

func TestGradeTooFewQuotes(t *testing.T) {
	c := Case{
		ID:       "t8",
		Question: "q",
		PolicyExpect: &PolicyExpect{
			QuotesMin: intPtr(1),
		},
	}
	result := resultWith("ok", nil, nil, nil)

	r := Grade(c, result)
	assert.Zero(t, r.Components.Quotes)
	assert.Contains(t, r.Feedback[0], "Too few quotes")
}

func TestGradeQuotesUnboundedByDefault(t *testing.T) {
	c := Case{ID: "t9", Question: "q", PolicyExpect: &PolicyExpect{}}
	quotes := make([]domain.Quote, 20)
	for i := range quotes {
		quotes[i] = domain.Quote{Text: "q"}
	}
	result := resultWith("ok", quotes, nil, nil)

	r := Grade(c, result)
	assert.Equal(t, 1, r.Components.Quotes)
}

func TestGradePolicyFlags(t *testing.T) {
	c := Case{
		ID:       "t10",
		Question: "blocked question",
		PolicyExpect: &PolicyExpect{
			FlagsPresent: []string{"blocked_regex"},
			FlagsAbsent:  []string{"low_relevance"},
			MustAnswer:   "outside the scope",
		},
	}
	result := resultWith(
		"This question appears to be outside the scope of the available documents.",
		nil, nil, []string{"blocked_regex"},
	)

	r := Grade(c, result)
	assert.Equal(t, 1, r.Components.Policy)
}

func TestGradePolicyUnexpectedFlag(t *testing.T) {
	c := Case{
		ID:       "t11",
		Question: "q",
		PolicyExpect: &PolicyExpect{
			FlagsAbsent: []string{"banned_phrase_detected"},
		},
	}
	result := resultWith("ok", nil, nil, []string{"banned_phrase_detected"})

	r := Grade(c, result)
	assert.Zero(t, r.Components.Policy)
}

func TestGradeMathCheck(t *testing.T) {
	c := Case{
		ID:       "t12",
		Question: "total?",
		PolicyExpect: &PolicyExpect{
			MathCheck: &MathCheck{Expected: 12450.00},
		},
	}
	result := resultWith("The total due is $12,450.00 per quarter.", nil, nil, nil)

	r := Grade(c, result)
	assert.Equal(t, 1, r.Components.Math)
	assert.Equal(t, 7, r.Max)
}

func TestGradeMathCheckMiss(t *testing.T) {
	c := Case{
		ID:       "t13",
		Question: "total?",
		PolicyExpect: &PolicyExpect{
			MathCheck: &MathCheck{Expected: 999.0},
		},
	}
	result := resultWith("The total due is $12,450.00.", nil, nil, nil)

	r := Grade(c, result)
	assert.Zero(t, r.Components.Math)
	assert.Contains(t, r.Feedback[0], "999")
}

func TestGradePassThreshold(t *testing.T) {
	// Max 6: 5 points passes, 4 does not.
	c := Case{ID: "t14", Question: "q", MustInclude: []string{"present", "also present"}}
	pass := resultWith("present and also present", nil, nil, nil)
	r := Grade(c, pass)
	assert.Equal(t, 6, r.Score)
	assert.True(t, r.Passed)

	c.MustCite = []string{"never-cited.pdf"}
	r = Grade(c, pass)
	assert.Equal(t, 4, r.Score)
	assert.False(t, r.Passed)
}

func TestGradeDoesNotMutateResult(t *testing.T) {
	c := Case{ID: "t15", Question: "q", MustInclude: []string{"x"}}
	result := resultWith("answer without the term", []domain.Quote{{Text: "q", Source: "a.pdf"}}, []string{"a.pdf"}, nil)

	_ = Grade(c, result)
	assert.Equal(t, "answer without the term", result.Answer)
	assert.Len(t, result.Parsed.Quotes, 1)
	assert.Equal(t, []string{"a.pdf"}, result.Parsed.UsedDocuments)
}
