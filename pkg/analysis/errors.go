package analysis

import (
	"errors"
	"time"

	"veoprompt/pkg/inference"
	"veoprompt/pkg/queue"
	"veoprompt/pkg/schema"
	"veoprompt/pkg/session"
)

var (
	ErrInvalidFileType  = errors.New("selected file is not an image")
	ErrFileRead         = errors.New("failed to read image file")
	ErrAlreadyAnalyzing = errors.New("an analysis is already running for this character")
)

const (
	KindInvalidFileType   = "invalid_file_type"
	KindFileRead          = "file_read"
	KindTransport         = "transport"
	KindMalformedResponse = "malformed_response"
)

// Kind classifies err into the user-facing failure taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidFileType):
		return KindInvalidFileType
	case errors.Is(err, ErrFileRead):
		return KindFileRead
	case errors.Is(err, inference.ErrMalformedResponse):
		return KindMalformedResponse
	default:
		return KindTransport
	}
}

var messages = map[string]string{
	KindInvalidFileType:   "File yang dipilih bukan gambar. Silakan pilih file dengan format gambar (JPEG, PNG, dll.).",
	KindFileRead:          "Gagal membaca file gambar. Silakan coba file lain.",
	KindTransport:         "Gagal menganalisis gambar. Pastikan gambar jelas dan coba lagi.",
	KindMalformedResponse: "Gagal menganalisis gambar. Respons model tidak dapat dibaca, silakan coba lagi.",
}

// Message returns the Indonesian notification text for err.
func Message(err error) string {
	return messages[Kind(err)]
}

func newNotice(err error) *schema.Notice {
	return &schema.Notice{
		Kind:    Kind(err),
		Message: Message(err),
		At:      time.Now().UTC(),
		Error:   err,
	}
}

// isDiscarded reports errors that mean the target character is gone.
func isDiscarded(err error) bool {
	return errors.Is(err, session.ErrNotFound)
}

func isQueueRejection(err error) bool {
	return errors.Is(err, queue.ErrFull) || errors.Is(err, queue.ErrStopped)
}
