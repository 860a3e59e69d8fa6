//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// MediaType represents the kind of content in a message
// ENUM(text,photo,video,document,audio,sticker)
type MediaType string

// DeleteReason represents why a message was removed
// ENUM(expired,edited)
type DeleteReason string

// IsMedia reports whether the kind counts as media for the auto-delete
// policy. Stickers follow the text gate, as do plain text messages.
func (x MediaType) IsMedia() bool {
	switch x {
	case MediaTypePhoto, MediaTypeVideo, MediaTypeDocument, MediaTypeAudio:
		return true
	}
	return false
}
