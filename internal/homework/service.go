// Package homework holds the board mutation and rendering rules: attribution
// stamps, photo placeholders, and the reply format for homework lookups.
package homework

import (
	"context"
	"fmt"
	"time"

	"github.com/Re-Date/schooltgbot/core/telegram/format"
	"github.com/Re-Date/schooltgbot/internal/storage"
)

// PhotoPlaceholder substitutes the text body when homework is a bare photo.
const PhotoPlaceholder = "(см. фото)"

// PhotoFallback is appended to the text when a stored photo cannot be sent.
const PhotoFallback = "(Не удалось загрузить фото)"

var monthsRu = [...]string{
	"января", "февраля", "марта", "апреля",
	"мая", "июня", "июля", "августа",
	"сентября", "октября", "ноября", "декабря",
}

// Author identifies who added an entry, for the attribution line.
type Author struct {
	ID       int64
	Username string
}

// Mention renders the author for chat text: "@username" when one is set.
func (a Author) Mention() string {
	if a.Username != "" {
		return "@" + a.Username
	}
	return fmt.Sprintf("User ID: %d", a.ID)
}

// Service owns the write path to the board and the lookup reply format.
type Service struct {
	board storage.Board
	tz    *time.Location
}

// NewService builds a service stamping attributions in the given fixed UTC
// offset, expressed in hours. School chats historically run on GMT+4.
func NewService(board storage.Board, tzOffsetHours int) *Service {
	return &Service{
		board: board,
		tz:    time.FixedZone(fmt.Sprintf("GMT%+d", tzOffsetHours), tzOffsetHours*3600),
	}
}

// Commit stores homework for a subject, appending the attribution line. An
// empty text with a photo gets the placeholder body. The stored entry is
// returned for confirmation replies.
func (s *Service) Commit(ctx context.Context, subject, text, photoID string, at time.Time, by Author) storage.Entry {
	if text == "" && photoID != "" {
		text = PhotoPlaceholder
	}
	e := storage.Entry{
		Text:    text + "\n\n" + s.attribution(at, by),
		PhotoID: photoID,
	}
	s.board.Add(ctx, subject, e)
	return e
}

// Render formats a lookup reply for the given subject key and entry.
func Render(subject string, e storage.Entry) string {
	return fmt.Sprintf("ДЗ по \"%s\":\n%s", format.Capitalize(subject), e.Text)
}

func (s *Service) attribution(at time.Time, by Author) string {
	local := at.In(s.tz)
	return fmt.Sprintf("(Добавлено %d %s в %s пользователем %s)",
		local.Day(), monthsRu[local.Month()-1], local.Format("15:04"), by.Mention())
}
