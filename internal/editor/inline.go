package editor

import (
	"richtext/internal/log"
	"richtext/pkg/richtext"
)

// ObjectReplacement is the placeholder character behind an attachment.
const ObjectReplacement = '\uFFFC'

type AttachmentRun struct {
	Attachment richtext.Attachment
	Range      richtext.Range
}

// InsertInlineContent inserts a line break, a placeholder carrying a, and
// another line break at the selection start, all with the typing
// attributes. The caret ends up after the second break.
func (e *Engine) InsertInlineContent(a richtext.Attachment) {
	attrs := e.typing().Without(richtext.KeyAttachment)
	content := richtext.NewText("\n", attrs)
	content.Insert(1, string(ObjectReplacement), attrs.With(a))
	content.Insert(2, "\n", attrs)

	e.transact("inline content", func(t *richtext.Text, sel richtext.Range) richtext.Range {
		t.InsertText(sel.Location, content)
		return richtext.Range{Location: sel.Location + content.Len()}
	})
	log.Debug(log.CatEngine, "Inserted attachment", "id", a.ID, "width", a.Width, "height", a.Height)
}

// Attachments lists the attachment placeholders inside r.
func (e *Engine) Attachments(r richtext.Range) []AttachmentRun {
	var out []AttachmentRun
	for _, vr := range e.text().QueryRuns(r, richtext.KeyAttachment) {
		a := vr.Value.(richtext.Attachment)
		// Adjacent placeholders with the same payload merge into one run.
		for i := 0; i < vr.Range.Length; i++ {
			out = append(out, AttachmentRun{Attachment: a, Range: richtext.Range{Location: vr.Range.Location + i, Length: 1}})
		}
	}
	return out
}

// RemoveAttachments deletes the placeholders inside the selection and puts
// the caret where the first one was. It returns what was removed.
func (e *Engine) RemoveAttachments() []AttachmentRun {
	runs := e.Attachments(e.Selection())
	if len(runs) == 0 {
		return nil
	}
	e.transact("remove attachments", func(t *richtext.Text, _ richtext.Range) richtext.Range {
		for i := len(runs) - 1; i >= 0; i-- {
			t.Delete(runs[i].Range)
		}
		return richtext.Range{Location: runs[0].Range.Location}
	})
	return runs
}
