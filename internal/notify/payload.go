// Package notify composes and delivers the operator notification sent when a
// submission is blocked.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/stopguard/stopguard/internal/scan"
)

const Subject = "Blocked Comment Notification - Prohibited Words Detected"

// PostContext describes the content a submission was made against.
type PostContext struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PostLookup resolves a content identifier to its display title and URL.
type PostLookup interface {
	Lookup(ctx context.Context, id string) (PostContext, error)
}

type Payload struct {
	To      string
	Subject string
	Body    string
}

// Build renders the notification. Every submitted value and all post
// metadata are HTML-escaped.
func Build(to string, fields scan.Fields, field scan.Field, term string, post PostContext) Payload {
	var b strings.Builder
	b.WriteString("A comment was blocked due to prohibited words.\n\n")
	fmt.Fprintf(&b, "Matched Term: %s\n", html.EscapeString(term))
	fmt.Fprintf(&b, "Matched Field: %s\n\n", html.EscapeString(string(field)))

	b.WriteString("Commenter Details:\n")
	fmt.Fprintf(&b, "Comment Author: %s\n", html.EscapeString(fields.Author))
	fmt.Fprintf(&b, "Author Email: %s\n", html.EscapeString(fields.AuthorEmail))
	fmt.Fprintf(&b, "Author URL: %s\n", html.EscapeString(fields.AuthorURL))
	fmt.Fprintf(&b, "Comment Content: %s\n", html.EscapeString(fields.Content))
	fmt.Fprintf(&b, "Author IP: %s\n\n", html.EscapeString(fields.AuthorIP))

	b.WriteString("Post Details:\n")
	fmt.Fprintf(&b, "Post Title: %s\n", html.EscapeString(post.Title))
	fmt.Fprintf(&b, "Post URL: %s\n", html.EscapeString(post.URL))
	fmt.Fprintf(&b, "Post ID: %s\n", html.EscapeString(post.ID))

	return Payload{To: to, Subject: Subject, Body: b.String()}
}

// StaticPosts is an in-memory PostLookup.
type StaticPosts map[string]PostContext

func (s StaticPosts) Lookup(_ context.Context, id string) (PostContext, error) {
	post, ok := s[id]
	if !ok {
		return PostContext{ID: id}, fmt.Errorf("post %q not found", id)
	}
	if post.ID == "" {
		post.ID = id
	}
	return post, nil
}
