// movies.go — REST-обработчики CRUD операций над записями фильмов.
// Валидация входных данных выполняется здесь, до сервисного слоя:
// невалидный запрос никогда не доходит до service.MovieService.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/bigkaa/moviemanager/internal/api/errors"
	"github.com/bigkaa/moviemanager/internal/domain/model"
	"github.com/bigkaa/moviemanager/internal/service"
	"github.com/bigkaa/moviemanager/internal/tmdb"
)

// Границы валидации входных данных.
const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
	// minReleaseYear — год первого в истории фильма ("Roundhay Garden Scene")
	minReleaseYear = 1888
	minRating      = 0
	maxRating      = 10
)

// createMovieRequest — тело POST /v1/movies.
type createMovieRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	ReleaseYear int    `json:"releaseYear"`
}

// updateMovieRequest — тело PUT /v1/movies/{movieID}.
// ID в теле запроса не принимается: идентификатор берётся только из пути.
type updateMovieRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ReleaseYear int     `json:"releaseYear"`
	Rating      float64 `json:"rating"`
}

// movieResponse — проводное представление записи фильма.
// Намеренно отделено от model.Movie: служебные поля
// (created_at, updated_at) наружу не отдаются.
type movieResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ReleaseYear int     `json:"releaseYear"`
	Rating      float64 `json:"rating"`
}

// moviesResponse — тело ответа GET /v1/movies.
type moviesResponse struct {
	Movies []movieResponse `json:"movies"`
}

func toMovieResponse(m *model.Movie) movieResponse {
	return movieResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ReleaseYear: m.ReleaseYear,
		Rating:      m.Rating,
	}
}

// ListMovies обрабатывает GET /v1/movies.
func (h *APIHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.FindAll(r.Context())
	if err != nil {
		h.logger.Error("не удалось получить список фильмов", "error", err)
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
		return
	}

	resp := moviesResponse{Movies: make([]movieResponse, 0, len(movies))}
	for _, m := range movies {
		resp.Movies = append(resp.Movies, toMovieResponse(m))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetMovie обрабатывает GET /v1/movies/{movieID}.
func (h *APIHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.moviePathID(w, r)
	if !ok {
		return
	}

	movie, err := h.movies.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, fmt.Sprintf("could not find movie by id - %s", id))
			return
		}
		h.logger.Error("не удалось получить запись фильма", "movie_id", id, "error", err)
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
		return
	}

	h.writeJSON(w, http.StatusOK, toMovieResponse(movie))
}

// CreateMovie обрабатывает POST /v1/movies.
// Успех — 201 с созданной записью. Отсутствие уникального совпадения
// в TMDB трактуется как "не нашли то, что вы просили" — 404, не 5xx.
func (h *APIHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req createMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}

	category, fieldErrors := validateCreateRequest(req)
	if len(fieldErrors) > 0 {
		apierrors.ValidationError(w, fieldErrors)
		return
	}

	movie, err := h.movies.Create(r.Context(), service.CreateMovieInfo{
		Title:       req.Title,
		Category:    category,
		ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUniqueMatchNotFound):
			apierrors.NotFound(w, "can't find a unique match for your request")
		case errors.Is(err, tmdb.ErrLookupUnavailable):
			h.logger.Error("поиск метаданных недоступен", "error", err)
			apierrors.BadGateway(w, "Сервис поиска метаданных недоступен")
		default:
			h.logger.Error("не удалось создать запись фильма", "error", err)
			apierrors.InternalError(w, "Внутренняя ошибка сервера")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, toMovieResponse(movie))
}

// UpdateMovie обрабатывает PUT /v1/movies/{movieID}.
func (h *APIHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.moviePathID(w, r)
	if !ok {
		return
	}

	var req updateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}

	if fieldErrors := validateUpdateRequest(req); len(fieldErrors) > 0 {
		apierrors.ValidationError(w, fieldErrors)
		return
	}

	movie, err := h.movies.Update(r.Context(), id, service.UpdateMovieInfo{
		Title:       req.Title,
		Description: req.Description,
		ReleaseYear: req.ReleaseYear,
		Rating:      req.Rating,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, fmt.Sprintf("update failed — could not find movie by id - %s", id))
			return
		}
		h.logger.Error("не удалось обновить запись фильма", "movie_id", id, "error", err)
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
		return
	}

	h.writeJSON(w, http.StatusOK, toMovieResponse(movie))
}

// DeleteMovie обрабатывает DELETE /v1/movies/{movieID}.
// Успех — 200 с пустым телом.
func (h *APIHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.moviePathID(w, r)
	if !ok {
		return
	}

	if err := h.movies.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, fmt.Sprintf("deletion failed — could not find movie with id - %s", id))
			return
		}
		h.logger.Error("не удалось удалить запись фильма", "movie_id", id, "error", err)
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// moviePathID извлекает и проверяет идентификатор записи из пути запроса.
// При невалидном UUID пишет ошибку валидации и возвращает ok=false.
func (h *APIHandler) moviePathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "movieID")
	if _, err := uuid.Parse(id); err != nil {
		apierrors.ValidationError(w, map[string]string{
			"id": "идентификатор должен быть валидным UUID",
		})
		return "", false
	}
	return id, true
}

// validateCreateRequest проверяет поля запроса создания записи.
// Возвращает распознанную категорию и map ошибок по полям.
func validateCreateRequest(req createMovieRequest) (tmdb.Category, map[string]string) {
	fieldErrors := make(map[string]string)

	if strings.TrimSpace(req.Title) == "" {
		fieldErrors["title"] = "название не должно быть пустым"
	} else if len(req.Title) > maxTitleLength {
		fieldErrors["title"] = fmt.Sprintf("название не должно превышать %d символов", maxTitleLength)
	}

	category, err := parseCategory(req.Type)
	if err != nil {
		fieldErrors["type"] = "тип должен быть MOVIE или TV_SHOW"
	}

	if req.ReleaseYear < minReleaseYear {
		fieldErrors["releaseYear"] = fmt.Sprintf("год выхода не может быть раньше %d", minReleaseYear)
	}

	return category, fieldErrors
}

// validateUpdateRequest проверяет поля запроса полной замены записи.
func validateUpdateRequest(req updateMovieRequest) map[string]string {
	fieldErrors := make(map[string]string)

	if strings.TrimSpace(req.Title) == "" {
		fieldErrors["title"] = "название не должно быть пустым"
	} else if len(req.Title) > maxTitleLength {
		fieldErrors["title"] = fmt.Sprintf("название не должно превышать %d символов", maxTitleLength)
	}

	if len(req.Description) > maxDescriptionLength {
		fieldErrors["description"] = fmt.Sprintf("описание не должно превышать %d символов", maxDescriptionLength)
	}

	if req.ReleaseYear < minReleaseYear {
		fieldErrors["releaseYear"] = fmt.Sprintf("год выхода не может быть раньше %d", minReleaseYear)
	}

	if req.Rating < minRating || req.Rating > maxRating {
		fieldErrors["rating"] = fmt.Sprintf("рейтинг должен быть в диапазоне [%d, %d]", minRating, maxRating)
	}

	return fieldErrors
}

// parseCategory сопоставляет значение поля type с канонической категорией.
// Сравнение нечувствительно к регистру и пунктуации:
// "tv-show", "Tv Show", "TV_SHOW" — одна и та же категория.
func parseCategory(raw string) (tmdb.Category, error) {
	normalized := strings.ToUpper(raw)
	for _, sep := range []string{"-", "_", " "} {
		normalized = strings.ReplaceAll(normalized, sep, "")
	}

	switch normalized {
	case "MOVIE":
		return tmdb.CategoryMovie, nil
	case "TVSHOW":
		return tmdb.CategoryTVShow, nil
	default:
		return "", fmt.Errorf("неизвестная категория: %q", raw)
	}
}
