// Package catalog loads the read-only question and chat dataset and answers
// category-scoped queries over it.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/random"
)

// OptionType classifies an answer option.
type OptionType string

const (
	Best        OptionType = "best"
	Conditional OptionType = "conditional"
	Other       OptionType = "other"
)

// Option is one answer choice.
type Option struct {
	Type OptionType  `json:"type"`
	Text locale.Text `json:"text"`
}

// Feedback is shown after an answer: a one-line point, a longer
// explanation, and a comparison with other countries.
type Feedback struct {
	Point      locale.Text `json:"point"`
	Detail     locale.Text `json:"detail"`
	Comparison locale.Text `json:"comparison"`
}

// QuestionID is a question identifier. The dataset may write it as a
// string or an integer.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("question id %s: %w", b, err)
	}
	*id = QuestionID(strconv.FormatInt(n, 10))
	return nil
}

// Question is a single dataset entry.
type Question struct {
	ID         QuestionID  `json:"id"`
	Category   locale.Text `json:"category"`
	Prompt     locale.Text `json:"question"`
	Options    []Option    `json:"options"`
	Difficulty int         `json:"difficulty"`
	ImageURL   string      `json:"imageUrl,omitempty"`
	Feedback   Feedback    `json:"feedback"`
}

// CategoryID maps the question's English category name to its id.
func (q *Question) CategoryID() category.ID {
	return category.ForName(q.Category.En)
}

// DisplayOption is an option in on-screen order, remembering its index in
// the dataset so the answer can be scored.
type DisplayOption struct {
	Option
	Index int
}

// ShuffledOptions returns the options in a random display order.
func (q *Question) ShuffledOptions(src random.Source) []DisplayOption {
	out := make([]DisplayOption, len(q.Options))
	for i, o := range q.Options {
		out[i] = DisplayOption{Option: o, Index: i}
	}
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ChatLine is a short guide remark tied to a category by English name.
type ChatLine struct {
	Category string      `json:"category"`
	Text     locale.Text `json:"text"`
}

// Dataset is the decoded document.
type Dataset struct {
	Questions []Question `json:"questions"`
	Chats     []ChatLine `json:"chats"`
}

// AnswerSet reports which questions already have an answer.
type AnswerSet interface {
	IsAnswered(questionID string) bool
}

// Progress summarizes how much of a category is answered.
type Progress struct {
	Answered   int
	Total      int
	Percentage int
}

// Catalog indexes a dataset by category.
type Catalog struct {
	questions  []Question
	chats      []ChatLine
	byCategory map[category.ID][]*Question
}

// New indexes ds.
func New(ds Dataset) *Catalog {
	c := &Catalog{
		questions:  ds.Questions,
		chats:      ds.Chats,
		byCategory: make(map[category.ID][]*Question),
	}
	for i := range c.questions {
		q := &c.questions[i]
		id := q.CategoryID()
		c.byCategory[id] = append(c.byCategory[id], q)
	}
	return c
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// QuestionsByCategory returns the category's questions in dataset order.
func (c *Catalog) QuestionsByCategory(id category.ID) []*Question {
	return c.byCategory[id]
}

// Question finds a question by id.
func (c *Catalog) Question(id QuestionID) (*Question, bool) {
	for i := range c.questions {
		if c.questions[i].ID == id {
			return &c.questions[i], true
		}
	}
	return nil, false
}

// NextUnanswered returns the first question in the category without an
// answer record.
func (c *Catalog) NextUnanswered(id category.ID, answers AnswerSet) (*Question, bool) {
	for _, q := range c.byCategory[id] {
		if !answers.IsAnswered(string(q.ID)) {
			return q, true
		}
	}
	return nil, false
}

// IsCategoryComplete reports whether every question in the category is
// answered. A category with no questions is complete.
func (c *Catalog) IsCategoryComplete(id category.ID, answers AnswerSet) bool {
	_, ok := c.NextUnanswered(id, answers)
	return !ok
}

// CategoryProgress counts answered questions in the category.
func (c *Catalog) CategoryProgress(id category.ID, answers AnswerSet) Progress {
	qs := c.byCategory[id]
	p := Progress{Total: len(qs)}
	for _, q := range qs {
		if answers.IsAnswered(string(q.ID)) {
			p.Answered++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Answered) / float64(p.Total) * 100))
	}
	return p
}

// RandomChatFor picks a chat line for the category uniformly at random.
func (c *Catalog) RandomChatFor(id category.ID, src random.Source) (*ChatLine, bool) {
	info, ok := category.Lookup(id)
	if !ok {
		return nil, false
	}
	var matches []*ChatLine
	for i := range c.chats {
		if c.chats[i].Category == info.NameEn {
			matches = append(matches, &c.chats[i])
		}
	}
	if len(matches) == 0 {
		return nil, false
	}
	return matches[src.IntN(len(matches))], true
}
