// Package mailbox streams RFC-822 messages out of an mbox archive and
// decodes their MIME bodies into plain-text and HTML views.
package mailbox

import (
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// Message is the decoded view of one mail message that extractors consume.
type Message struct {
	Date    time.Time
	Subject string
	Text    string
	HTML    string
}

// charsetReader decodes non-UTF-8 part bodies and encoded-word headers.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, eris.Wrapf(err, "mailbox: unknown charset %s", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}

var headerDecoder = mime.WordDecoder{CharsetReader: charsetReader}

// ReadMessage parses a single RFC-822 message into a Message. The order
// date comes from the Date header, never from wall-clock time, so repeated
// runs over the same archive are byte-identical.
func ReadMessage(r io.Reader) (*Message, error) {
	m, err := mail.ReadMessage(r)
	if err != nil {
		return nil, eris.Wrap(err, "mailbox: read message")
	}

	msg := &Message{}
	if date, err := m.Header.Date(); err == nil {
		msg.Date = date.UTC()
	}
	if subject, err := headerDecoder.DecodeHeader(m.Header.Get("Subject")); err == nil {
		msg.Subject = subject
	} else {
		msg.Subject = m.Header.Get("Subject")
	}

	header := make(textproto.MIMEHeader)
	for k, v := range m.Header {
		header[k] = v
	}
	if err := msg.readPart(header, m.Body); err != nil {
		return nil, err
	}
	return msg, nil
}

// readPart decodes one MIME part, recursing into multipart containers. The
// first text/plain and text/html bodies encountered win.
func (msg *Message) readPart(header textproto.MIMEHeader, body io.Reader) error {
	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return eris.New("mailbox: multipart without boundary")
		}
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return eris.Wrap(err, "mailbox: next part")
			}
			if err := msg.readPart(part.Header, part); err != nil {
				return err
			}
		}
	}

	if mediaType != "text/plain" && mediaType != "text/html" {
		// Attachments are streamed past, not decoded.
		_, _ = io.Copy(io.Discard, body)
		return nil
	}

	decoded := decodeBody(body, header.Get("Content-Transfer-Encoding"), params["charset"])
	content, err := io.ReadAll(decoded)
	if err != nil {
		return eris.Wrap(err, "mailbox: read part body")
	}

	switch mediaType {
	case "text/plain":
		if msg.Text == "" {
			msg.Text = string(content)
		}
	case "text/html":
		if msg.HTML == "" {
			msg.HTML = string(content)
		}
	}
	return nil
}

// decodeBody unwraps the transfer encoding and charset of a part body.
// Decoding failures fall back to the raw bytes; the extractors' formatString
// pass cleans up leftover quoted-printable artifacts.
func decodeBody(r io.Reader, transferEncoding, charset string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	}
	if charset != "" && !strings.EqualFold(charset, "utf-8") && !strings.EqualFold(charset, "us-ascii") {
		if converted, err := charsetReader(charset, r); err == nil {
			r = converted
		}
	}
	return r
}
