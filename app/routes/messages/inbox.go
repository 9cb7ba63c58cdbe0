package messages

import (
	"sort"
	"strings"

	"rentals-dashboard/app/models"
)

const PageSize = 10

// Query selects a page of the inbox.
type Query struct {
	Type   models.MessageType
	Search string
	Page   int
}

type Page struct {
	Messages []models.Message
	Number   int
	Pages    int
	Total    int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.Pages }

// Inbox keeps thread roots matching q, newest first, and cuts the requested page.
// Out-of-range page numbers are clamped.
func Inbox(all []models.Message, q Query) Page {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	roots := make([]models.Message, 0, len(all))
	for _, m := range all {
		if !m.IsRoot() {
			continue
		}
		if q.Type != "" && m.Type != q.Type {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Subject), search) &&
			!strings.Contains(strings.ToLower(m.Content), search) {
			continue
		}
		roots = append(roots, m)
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})

	pages := (len(roots) + PageSize - 1) / PageSize
	if pages == 0 {
		pages = 1
	}
	n := q.Page
	if n < 1 {
		n = 1
	}
	if n > pages {
		n = pages
	}
	start := (n - 1) * PageSize
	end := start + PageSize
	if end > len(roots) {
		end = len(roots)
	}
	return Page{Messages: roots[start:end], Number: n, Pages: pages, Total: len(roots)}
}

// RepliesTo returns the flat thread under rootID, oldest first.
func RepliesTo(all []models.Message, rootID int64) []models.Message {
	var replies []models.Message
	for _, m := range all {
		if m.ParentID != nil && *m.ParentID == rootID {
			replies = append(replies, m)
		}
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies
}

// ReplySubject prefixes subject with "Re: " once, truncated to the subject limit.
func ReplySubject(subject string) string {
	if !strings.HasPrefix(subject, "Re: ") {
		subject = "Re: " + subject
	}
	if r := []rune(subject); len(r) > maxSubject {
		subject = string(r[:maxSubject])
	}
	return subject
}
