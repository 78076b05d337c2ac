// Пакет model — доменные модели Movie Manager.
package model

import "time"

// Movie — запись фильма или сериала в таблице movies.
// Идентичность определяется только полем ID: две записи равны тогда и
// только тогда, когда равны их ID.
type Movie struct {
	// ID — UUID записи, генерируется сервисом при создании и неизменен
	ID string
	// Title — название (нормализуется в верхний регистр при создании)
	Title string
	// Description — описание; при создании копируется из TMDB
	Description string
	// ReleaseYear — год выхода (не раньше 1888)
	ReleaseYear int
	// Rating — рейтинг в диапазоне [0, 10]; при создании копируется из TMDB
	Rating float64
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
