package quiz

import (
	"errors"
	"sort"
)

// ErrNotFound is returned for unknown MQ or item ids.
var ErrNotFound = errors.New("not found")

// Catalog is the read-only micro-quiz bank. Authoring happens out of band;
// at serve time the bank never changes.
type Catalog struct {
	mqs map[string]MicroQuiz
	ids []string // sorted
}

func NewCatalog(mqs []MicroQuiz) *Catalog {
	c := &Catalog{mqs: make(map[string]MicroQuiz, len(mqs))}
	for _, mq := range mqs {
		if mq.TotalMarks == 0 {
			for _, it := range mq.Items {
				mq.TotalMarks += it.Marks
			}
		}
		c.mqs[mq.ID] = mq
		c.ids = append(c.ids, mq.ID)
	}
	sort.Strings(c.ids)
	return c
}

// List returns catalog metadata sorted by id.
func (c *Catalog) List() []MQMeta {
	out := make([]MQMeta, 0, len(c.ids))
	for _, id := range c.ids {
		mq := c.mqs[id]
		out = append(out, MQMeta{
			ID:         mq.ID,
			Title:      mq.Title,
			Desc:       mq.Desc,
			TotalMarks: mq.TotalMarks,
			TargetLOs:  mq.TargetLOs,
		})
	}
	return out
}

// Get returns the full quiz, answer keys included. Callers serving students
// must strip keys (see Sanitized).
func (c *Catalog) Get(id string) (MicroQuiz, error) {
	mq, ok := c.mqs[id]
	if !ok {
		return MicroQuiz{}, ErrNotFound
	}
	return mq, nil
}

// Item looks up one item within a quiz.
func (c *Catalog) Item(mqID, itemID string) (Item, error) {
	mq, ok := c.mqs[mqID]
	if !ok {
		return Item{}, ErrNotFound
	}
	for _, it := range mq.Items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

// Next recommends the quiz after lastMQID, clamped at the final quiz.
// With recent-lesson hints, remediation targeting is not implemented yet,
// so the earliest quiz is returned.
func (c *Catalog) Next(lastMQID string, recentLessons []string) (string, error) {
	if len(c.ids) == 0 {
		return "", ErrNotFound
	}
	if len(recentLessons) > 0 {
		return c.ids[0], nil
	}
	if lastMQID == "" {
		return c.ids[0], nil
	}
	if _, ok := c.mqs[lastMQID]; !ok {
		return c.ids[0], nil
	}
	idx := sort.SearchStrings(c.ids, lastMQID)
	if idx+1 < len(c.ids) {
		return c.ids[idx+1], nil
	}
	return c.ids[len(c.ids)-1], nil
}

// Sanitized returns a copy of the quiz with answer keys removed, safe to
// serve to students.
func Sanitized(mq MicroQuiz) MicroQuiz {
	items := make([]Item, len(mq.Items))
	copy(items, mq.Items)
	for i := range items {
		items[i].Answer = AnswerKey{}
	}
	mq.Items = items
	return mq
}
