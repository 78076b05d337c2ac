// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — фильм с указанным ID не существует.
	ErrNotFound = errors.New("фильм не найден")
	// ErrUniqueMatchNotFound — внешний поиск вернул не ровно один результат.
	// Система не угадывает среди нескольких совпадений и не выдумывает
	// данные при нуле совпадений.
	ErrUniqueMatchNotFound = errors.New("can't find a unique match for your request")
)
