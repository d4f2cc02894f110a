package mailbox

import (
	"io"

	"github.com/emersion/go-mbox"
	"github.com/rotisserie/eris"
)

// EachMessage streams an mbox archive message-by-message, invoking fn for
// each one. A message that fails to parse is reported to fn with a nil
// Message and the parse error; the stream continues past it. The total
// message count is only known once the stream ends, which is the completion
// barrier the merge phase waits on.
//
// fn returning an error aborts the stream.
func EachMessage(r io.Reader, fn func(msg *Message, err error) error) (int, error) {
	mr := mbox.NewReader(r)
	count := 0
	for {
		msgReader, err := mr.NextMessage()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, eris.Wrap(err, "mailbox: next mbox message")
		}
		count++

		msg, parseErr := ReadMessage(msgReader)
		if cbErr := fn(msg, parseErr); cbErr != nil {
			return count, cbErr
		}
	}
}
