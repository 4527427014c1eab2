package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/archivist-labs/docqa/internal/policy"
)

// Memory keeps short per-conversation history so follow-up questions
// can reference earlier turns. Answers are summarized before storage
// so one verbose reply cannot dominate the context window.
type Memory struct {
	maxTurns      int
	summaryMax    int
	answerMax     int
	mu            sync.RWMutex
	conversations map[string]*conversation
}

type conversation struct {
	mu    sync.Mutex
	turns []turn
}

type turn struct {
	question string
	answer   string
}

func NewMemory(p policy.Policy) *Memory {
	return &Memory{
		maxTurns:      p.Memory.MaxTurns,
		summaryMax:    p.Memory.SummaryMaxChars,
		answerMax:     p.Memory.AnswerMaxChars,
		conversations: make(map[string]*conversation),
	}
}

// Append records a completed turn. Older turns beyond the window are
// discarded.
func (m *Memory) Append(conversationID, question, answer string) {
	if conversationID == "" {
		return
	}

	m.mu.Lock()
	conv, ok := m.conversations[conversationID]
	if !ok {
		conv = &conversation{}
		m.conversations[conversationID] = conv
	}
	m.mu.Unlock()

	conv.mu.Lock()
	defer conv.mu.Unlock()

	conv.turns = append(conv.turns, turn{
		question: question,
		answer:   summarize(answer, m.answerMax),
	})
	if len(conv.turns) > m.maxTurns {
		conv.turns = conv.turns[len(conv.turns)-m.maxTurns:]
	}
}

// Context renders the conversation history as numbered turns, bounded
// by the summary length. Unknown conversations yield an empty string.
func (m *Memory) Context(conversationID string) string {
	if conversationID == "" {
		return ""
	}

	m.mu.RLock()
	conv, ok := m.conversations[conversationID]
	m.mu.RUnlock()
	if !ok {
		return ""
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	if len(conv.turns) == 0 {
		return ""
	}

	var b strings.Builder
	for i, t := range conv.turns {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[Turn %d] Q: %s\nA: %s", i+1, t.question, t.answer)
	}
	return summarize(b.String(), m.summaryMax)
}

// Clear forgets one conversation.
func (m *Memory) Clear(conversationID string) {
	m.mu.Lock()
	delete(m.conversations, conversationID)
	m.mu.Unlock()
}
