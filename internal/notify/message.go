package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// Message is a rendered email.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// BuildMessage renders the HTML and plain-text bodies for n. All submitted
// text is HTML-escaped in the HTML body.
func BuildMessage(ctx context.Context, n Notification) (Message, error) {
	var buf bytes.Buffer
	if err := emailBody(n).Render(ctx, &buf); err != nil {
		return Message{}, err
	}
	return Message{
		Subject: "Contact: " + n.DisplaySubject(),
		HTML:    buf.String(),
		Text:    textBody(n),
	}, nil
}

// emailBody is the HTML body component.
func emailBody(n Notification) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div style="font-family: sans-serif; line-height: 1.5;">`)
		b.WriteString(`<h2>New contact form submission</h2>`)
		writeField(&b, "Name", n.Name)
		writeField(&b, "Email", n.Email)
		writeField(&b, "Subject", n.DisplaySubject())
		b.WriteString(`<p><strong>Message:</strong></p>`)
		fmt.Fprintf(&b, `<p style="white-space: pre-wrap;">%s</p>`, templ.EscapeString(n.Message))
		fmt.Fprintf(&b, `<p style="color: #71717a; font-size: 12px;">Received %s (ref %s)</p>`,
			templ.EscapeString(n.Timestamp.Format(time.RFC1123)), templ.EscapeString(n.ID))
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<p><strong>%s:</strong> %s</p>`, label, templ.EscapeString(value))
}

// textBody renders the plain-text alternative.
func textBody(n Notification) string {
	var b strings.Builder
	b.WriteString("New contact form submission\n\n")
	fmt.Fprintf(&b, "Name: %s\n", n.Name)
	fmt.Fprintf(&b, "Email: %s\n", n.Email)
	fmt.Fprintf(&b, "Subject: %s\n\n", n.DisplaySubject())
	fmt.Fprintf(&b, "Message:\n%s\n\n", n.Message)
	fmt.Fprintf(&b, "Received %s (ref %s)\n", n.Timestamp.Format(time.RFC1123), n.ID)
	return b.String()
}
