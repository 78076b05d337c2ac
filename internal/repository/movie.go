package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/moviemanager/internal/domain/model"
)

// movieColumns — список столбцов таблицы movies для SELECT-запросов.
// DRY: одно место для всех SELECT'ов.
const movieColumns = `id, title, description, release_year, rating, created_at, updated_at`

// MovieRepository — интерфейс CRUD для таблицы movies.
type MovieRepository interface {
	// Create вставляет новую запись. ID должен быть сгенерирован вызывающим кодом.
	Create(ctx context.Context, movie *model.Movie) error
	// GetByID возвращает запись по UUID или ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Movie, error)
	// List возвращает все записи в порядке вставки.
	List(ctx context.Context) ([]*model.Movie, error)
	// Update полностью перезаписывает все поля записи с данным ID.
	// Возвращает ErrNotFound, если записи нет.
	Update(ctx context.Context, movie *model.Movie) error
	// Delete удаляет запись по UUID.
	// Возвращает ErrNotFound, если ни одна строка не затронута.
	Delete(ctx context.Context, id string) error
}

// movieRepo — реализация MovieRepository через pgx.
type movieRepo struct {
	db DBTX
}

// NewMovieRepository создаёт репозиторий фильмов.
func NewMovieRepository(db DBTX) MovieRepository {
	return &movieRepo{db: db}
}

func (r *movieRepo) Create(ctx context.Context, movie *model.Movie) error {
	query := `
		INSERT INTO movies (id, title, description, release_year, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		movie.ID, movie.Title, movie.Description, movie.ReleaseYear, movie.Rating,
	).Scan(&movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания записи фильма: %w", err)
	}
	return nil
}

func (r *movieRepo) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)

	m := &model.Movie{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.ReleaseYear, &m.Rating,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи фильма: %w", err)
	}
	return m, nil
}

func (r *movieRepo) List(ctx context.Context) ([]*model.Movie, error) {
	// Порядок вставки: created_at с id как tie-breaker для стабильности
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY created_at, id`, movieColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка фильмов: %w", err)
	}
	defer rows.Close()

	var result []*model.Movie
	for rows.Next() {
		m := &model.Movie{}
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Description, &m.ReleaseYear, &m.Rating,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи фильма: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *movieRepo) Update(ctx context.Context, movie *model.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, description = $3, release_year = $4, rating = $5,
			updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		movie.ID, movie.Title, movie.Description, movie.ReleaseYear, movie.Rating,
	).Scan(&movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления записи фильма: %w", err)
	}
	return nil
}

func (r *movieRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления записи фильма: %w", err)
	}
	// RowsAffected() == 0 — сигнал "ничего не удалено", транслируется
	// сервисным слоем в доменную ошибку not-found
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
