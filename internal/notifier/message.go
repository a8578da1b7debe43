package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"time"
)

var htmlTmpl = template.Must(template.New("report").Parse(
	"<html><body><pre style='font-family:monospace;font-size:13px'>{{.}}</pre></body></html>"))

// Message is a single report email.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	Date    time.Time
}

// Subject builds the report subject line for the given day.
func Subject(region string, day time.Time) string {
	return fmt.Sprintf("%s Rainfall Update - %s", region, day.Format("Jan 02, 2006"))
}

// HTMLBody wraps the plain report in a monospace preformatted block.
func HTMLBody(text string) (string, error) {
	var b bytes.Buffer
	if err := htmlTmpl.Execute(&b, text); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Bytes renders the message as multipart/alternative with a text/plain part and a
// text/html part.
func (m Message) Bytes() ([]byte, error) {
	html, err := HTMLBody(m.Text)
	if err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := writePart(mw, "text/plain; charset=utf-8", m.Text); err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html; charset=utf-8", html); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", m.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", m.Date.Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, content string) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	pw, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	qw := quotedprintable.NewWriter(pw)
	if _, err := qw.Write([]byte(content)); err != nil {
		return err
	}
	return qw.Close()
}
