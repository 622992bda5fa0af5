package wizard

import (
	"encoding/json"
	"fmt"
)

type AttachmentKind string

const (
	AttachmentNone   AttachmentKind = "none"
	AttachmentFile   AttachmentKind = "file"
	AttachmentRemote AttachmentKind = "url"
)

// LocalFile is an upload the applicant picked but that has not reached storage yet. Its bytes
// are kept in the pending file store under ID, never in the draft itself.
type LocalFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Attachment holds exactly one of: nothing, a pending local file, or the URL it was uploaded to.
// The zero value is an empty attachment.
type Attachment struct {
	file *LocalFile
	url  string
}

func NoAttachment() Attachment { return Attachment{} }

func FileAttachment(f LocalFile) Attachment {
	return Attachment{file: &f}
}

// URLAttachment wraps an already-resolved link. An empty link is no attachment at all.
func URLAttachment(url string) Attachment {
	return Attachment{url: url}
}

func (a Attachment) Kind() AttachmentKind {
	switch {
	case a.file != nil:
		return AttachmentFile
	case a.url != "":
		return AttachmentRemote
	default:
		return AttachmentNone
	}
}

func (a Attachment) File() (LocalFile, bool) {
	if a.file == nil {
		return LocalFile{}, false
	}
	return *a.file, true
}

// holds reports whether a is a pending file with the same ID as f.
func (a Attachment) holds(f LocalFile) bool {
	return a.file != nil && a.file.ID == f.ID
}

func (a Attachment) URL() (string, bool) {
	if a.file != nil || a.url == "" {
		return "", false
	}
	return a.url, true
}

type attachmentJSON struct {
	Kind AttachmentKind `json:"kind"`
	File *LocalFile     `json:"file,omitempty"`
	URL  string         `json:"url,omitempty"`
}

func (a Attachment) MarshalJSON() ([]byte, error) {
	return json.Marshal(attachmentJSON{Kind: a.Kind(), File: a.file, URL: a.url})
}

func (a *Attachment) UnmarshalJSON(data []byte) error {
	var raw attachmentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case AttachmentNone, "":
		*a = NoAttachment()
	case AttachmentFile:
		if raw.File == nil {
			return fmt.Errorf("attachment of kind %q has no file", raw.Kind)
		}
		*a = FileAttachment(*raw.File)
	case AttachmentRemote:
		*a = URLAttachment(raw.URL)
	default:
		return fmt.Errorf("unknown attachment kind %q", raw.Kind)
	}
	return nil
}
