package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/moviemanager/internal/domain/model"
	"github.com/bigkaa/moviemanager/internal/service"
	"github.com/bigkaa/moviemanager/internal/tmdb"
)

// mockMovieService — мок сервисного слоя с подменяемыми функциями.
type mockMovieService struct {
	createFn     func(ctx context.Context, info service.CreateMovieInfo) (*model.Movie, error)
	findAllFn    func(ctx context.Context) ([]*model.Movie, error)
	findByIDFn   func(ctx context.Context, id string) (*model.Movie, error)
	updateFn     func(ctx context.Context, id string, info service.UpdateMovieInfo) (*model.Movie, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockMovieService) Create(ctx context.Context, info service.CreateMovieInfo) (*model.Movie, error) {
	return m.createFn(ctx, info)
}

func (m *mockMovieService) FindAll(ctx context.Context) ([]*model.Movie, error) {
	return m.findAllFn(ctx)
}

func (m *mockMovieService) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockMovieService) Update(ctx context.Context, id string, info service.UpdateMovieInfo) (*model.Movie, error) {
	return m.updateFn(ctx, id, info)
}

func (m *mockMovieService) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFn(ctx, id)
}

// errorBody — структура тела ошибки API для разбора в тестах.
type errorBody struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
	Errors    map[string]string `json:"errors"`
}

const testMovieID = "2b1f3f3e-6c0a-4d5e-9b8a-1f2e3d4c5b6a"

func newTestRouter(svc MovieService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewAPIHandler(svc, logger)

	r := chi.NewRouter()
	r.Get("/v1/movies", h.ListMovies)
	r.Post("/v1/movies", h.CreateMovie)
	r.Get("/v1/movies/{movieID}", h.GetMovie)
	r.Put("/v1/movies/{movieID}", h.UpdateMovie)
	r.Delete("/v1/movies/{movieID}", h.DeleteMovie)
	return r
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("не удалось сериализовать тело запроса: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateMovie_Success(t *testing.T) {
	var gotInfo service.CreateMovieInfo
	svc := &mockMovieService{
		createFn: func(_ context.Context, info service.CreateMovieInfo) (*model.Movie, error) {
			gotInfo = info
			return &model.Movie{
				ID:          testMovieID,
				Title:       "HOME ALONE",
				Description: "Christmas movie",
				ReleaseYear: 1990,
				Rating:      8.5,
			}, nil
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodPost, "/v1/movies", map[string]any{
		"title":       "Home Alone",
		"type":        "movie",
		"releaseYear": 1990,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("ожидался статус 201, получен %d: %s", rec.Code, rec.Body.String())
	}

	if gotInfo.Category != tmdb.CategoryMovie {
		t.Errorf("ожидалась категория MOVIE, получена %q", gotInfo.Category)
	}

	var resp movieResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if resp.ID != testMovieID {
		t.Errorf("ожидался id %q, получен %q", testMovieID, resp.ID)
	}
	if resp.Title != "HOME ALONE" {
		t.Errorf("ожидалось название HOME ALONE, получено %q", resp.Title)
	}
	if resp.Description != "Christmas movie" {
		t.Errorf("ожидалось описание из кандидата, получено %q", resp.Description)
	}
	if resp.Rating != 8.5 {
		t.Errorf("ожидался рейтинг 8.5, получен %v", resp.Rating)
	}
}

func TestCreateMovie_ReleaseYearBoundary(t *testing.T) {
	svc := &mockMovieService{
		createFn: func(_ context.Context, info service.CreateMovieInfo) (*model.Movie, error) {
			return &model.Movie{ID: testMovieID, Title: info.Title, ReleaseYear: info.ReleaseYear}, nil
		},
	}
	router := newTestRouter(svc)

	// 1887 — до первого фильма в истории, отклоняется
	rec := doJSON(t, router, http.MethodPost, "/v1/movies", map[string]any{
		"title": "Roundhay Garden Scene", "type": "MOVIE", "releaseYear": 1887,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("год 1887: ожидался статус 400, получен %d", rec.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("не удалось разобрать тело ошибки: %v", err)
	}
	if _, ok := body.Errors["releaseYear"]; !ok {
		t.Errorf("ожидалась ошибка по полю releaseYear, получено %v", body.Errors)
	}

	// 1888 — принимается
	rec = doJSON(t, router, http.MethodPost, "/v1/movies", map[string]any{
		"title": "Roundhay Garden Scene", "type": "MOVIE", "releaseYear": 1888,
	})
	if rec.Code != http.StatusCreated {
		t.Errorf("год 1888: ожидался статус 201, получен %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateMovie_TitleValidation(t *testing.T) {
	svc := &mockMovieService{
		createFn: func(_ context.Context, _ service.CreateMovieInfo) (*model.Movie, error) {
			t.Fatal("сервис не должен вызываться при невалидных данных")
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	longTitle := strings.Repeat("a", maxTitleLength+1)

	tests := []struct {
		name  string
		title string
	}{
		{"пустое название", ""},
		{"название из пробелов", "   "},
		{"название длиннее 100 символов", longTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/v1/movies", map[string]any{
				"title": tt.title, "type": "MOVIE", "releaseYear": 1990,
			})
			if rec.Code != http.StatusBadRequest {
				t.Errorf("ожидался статус 400, получен %d", rec.Code)
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("не удалось разобрать тело ошибки: %v", err)
			}
			if _, ok := body.Errors["title"]; !ok {
				t.Errorf("ожидалась ошибка по полю title, получено %v", body.Errors)
			}
		})
	}
}

func TestCreateMovie_CategorySynonyms(t *testing.T) {
	tests := []struct {
		raw  string
		want tmdb.Category
	}{
		{"MOVIE", tmdb.CategoryMovie},
		{"movie", tmdb.CategoryMovie},
		{"TV_SHOW", tmdb.CategoryTVShow},
		{"tv-show", tmdb.CategoryTVShow},
		{"Tv Show", tmdb.CategoryTVShow},
		{"tvshow", tmdb.CategoryTVShow},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var got tmdb.Category
			svc := &mockMovieService{
				createFn: func(_ context.Context, info service.CreateMovieInfo) (*model.Movie, error) {
					got = info.Category
					return &model.Movie{ID: testMovieID}, nil
				},
			}

			rec := doJSON(t, newTestRouter(svc), http.MethodPost, "/v1/movies", map[string]any{
				"title": "Dark", "type": tt.raw, "releaseYear": 2017,
			})
			if rec.Code != http.StatusCreated {
				t.Fatalf("ожидался статус 201, получен %d: %s", rec.Code, rec.Body.String())
			}
			if got != tt.want {
				t.Errorf("ожидалась категория %q, получена %q", tt.want, got)
			}
		})
	}
}

func TestCreateMovie_UnknownCategory(t *testing.T) {
	svc := &mockMovieService{
		createFn: func(_ context.Context, _ service.CreateMovieInfo) (*model.Movie, error) {
			t.Fatal("сервис не должен вызываться при невалидных данных")
			return nil, nil
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodPost, "/v1/movies", map[string]any{
		"title": "Dark", "type": "DOCUMENTARY", "releaseYear": 2017,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("ожидался статус 400, получен %d", rec.Code)
	}
}

func TestCreateMovie_NoUniqueMatch(t *testing.T) {
	svc := &mockMovieService{
		createFn: func(_ context.Context, _ service.CreateMovieInfo) (*model.Movie, error) {
			return nil, service.ErrUniqueMatchNotFound
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodPost, "/v1/movies", map[string]any{
		"title": "Home Alone", "type": "MOVIE", "releaseYear": 1990,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("ожидался статус 404, получен %d", rec.Code)
	}

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("не удалось разобрать тело ошибки: %v", err)
	}
	if body.Message != "can't find a unique match for your request" {
		t.Errorf("неожиданное сообщение: %q", body.Message)
	}
	if body.Status != http.StatusNotFound {
		t.Errorf("поле status должно быть 404, получено %d", body.Status)
	}
	if body.Timestamp == "" {
		t.Error("поле timestamp не должно быть пустым")
	}
}

func TestCreateMovie_LookupUnavailable(t *testing.T) {
	svc := &mockMovieService{
		createFn: func(_ context.Context, _ service.CreateMovieInfo) (*model.Movie, error) {
			return nil, fmt.Errorf("поиск метаданных: %w", tmdb.ErrLookupUnavailable)
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodPost, "/v1/movies", map[string]any{
		"title": "Home Alone", "type": "MOVIE", "releaseYear": 1990,
	})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("ожидался статус 502, получен %d", rec.Code)
	}
}

func TestGetMovie_NotFound(t *testing.T) {
	svc := &mockMovieService{
		findByIDFn: func(_ context.Context, _ string) (*model.Movie, error) {
			return nil, service.ErrNotFound
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodGet, "/v1/movies/"+testMovieID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("ожидался статус 404, получен %d", rec.Code)
	}

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("не удалось разобрать тело ошибки: %v", err)
	}
	want := "could not find movie by id - " + testMovieID
	if body.Message != want {
		t.Errorf("ожидалось сообщение %q, получено %q", want, body.Message)
	}
}

func TestGetMovie_InvalidID(t *testing.T) {
	svc := &mockMovieService{
		findByIDFn: func(_ context.Context, _ string) (*model.Movie, error) {
			t.Fatal("сервис не должен вызываться при невалидном идентификаторе")
			return nil, nil
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodGet, "/v1/movies/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("ожидался статус 400, получен %d", rec.Code)
	}
}

func TestUpdateMovie_RatingBoundaries(t *testing.T) {
	svc := &mockMovieService{
		updateFn: func(_ context.Context, id string, info service.UpdateMovieInfo) (*model.Movie, error) {
			return &model.Movie{
				ID:          id,
				Title:       info.Title,
				ReleaseYear: info.ReleaseYear,
				Rating:      info.Rating,
			}, nil
		},
	}
	router := newTestRouter(svc)

	tests := []struct {
		name     string
		rating   float64
		wantCode int
	}{
		{"рейтинг 10.0 принимается", 10.0, http.StatusOK},
		{"рейтинг 0 принимается", 0, http.StatusOK},
		{"рейтинг 10.1 отклоняется", 10.1, http.StatusBadRequest},
		{"рейтинг -0.01 отклоняется", -0.01, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPut, "/v1/movies/"+testMovieID, map[string]any{
				"title":       "HOME ALONE",
				"description": "Christmas movie",
				"releaseYear": 1990,
				"rating":      tt.rating,
			})
			if rec.Code != tt.wantCode {
				t.Errorf("ожидался статус %d, получен %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUpdateMovie_DescriptionTooLong(t *testing.T) {
	svc := &mockMovieService{
		updateFn: func(_ context.Context, _ string, _ service.UpdateMovieInfo) (*model.Movie, error) {
			t.Fatal("сервис не должен вызываться при невалидных данных")
			return nil, nil
		},
	}

	longDescription := strings.Repeat("x", maxDescriptionLength+1)

	rec := doJSON(t, newTestRouter(svc), http.MethodPut, "/v1/movies/"+testMovieID, map[string]any{
		"title":       "HOME ALONE",
		"description": longDescription,
		"releaseYear": 1990,
		"rating":      8.5,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("ожидался статус 400, получен %d", rec.Code)
	}
}

func TestUpdateMovie_NotFound(t *testing.T) {
	svc := &mockMovieService{
		updateFn: func(_ context.Context, _ string, _ service.UpdateMovieInfo) (*model.Movie, error) {
			return nil, service.ErrNotFound
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodPut, "/v1/movies/"+testMovieID, map[string]any{
		"title": "HOME ALONE", "releaseYear": 1990, "rating": 8.5,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("ожидался статус 404, получен %d", rec.Code)
	}

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("не удалось разобрать тело ошибки: %v", err)
	}
	want := "update failed — could not find movie by id - " + testMovieID
	if body.Message != want {
		t.Errorf("ожидалось сообщение %q, получено %q", want, body.Message)
	}
}

func TestDeleteMovie(t *testing.T) {
	svc := &mockMovieService{
		deleteByIDFn: func(_ context.Context, id string) error {
			if id != testMovieID {
				t.Errorf("ожидался id %q, получен %q", testMovieID, id)
			}
			return nil
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodDelete, "/v1/movies/"+testMovieID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("ожидался статус 200, получен %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("тело ответа должно быть пустым, получено %q", rec.Body.String())
	}
}

func TestDeleteMovie_NotFound(t *testing.T) {
	svc := &mockMovieService{
		deleteByIDFn: func(_ context.Context, _ string) error {
			return service.ErrNotFound
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodDelete, "/v1/movies/"+testMovieID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("ожидался статус 404, получен %d", rec.Code)
	}

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("не удалось разобрать тело ошибки: %v", err)
	}
	want := "deletion failed — could not find movie with id - " + testMovieID
	if body.Message != want {
		t.Errorf("ожидалось сообщение %q, получено %q", want, body.Message)
	}
}

func TestListMovies(t *testing.T) {
	svc := &mockMovieService{
		findAllFn: func(_ context.Context) ([]*model.Movie, error) {
			return []*model.Movie{
				{ID: "id-1", Title: "HOME ALONE", ReleaseYear: 1990, Rating: 8.5},
				{ID: "id-2", Title: "DARK", ReleaseYear: 2017, Rating: 8.7},
			}, nil
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodGet, "/v1/movies", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d", rec.Code)
	}

	var resp moviesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if len(resp.Movies) != 2 {
		t.Fatalf("ожидалось 2 записи, получено %d", len(resp.Movies))
	}
	if resp.Movies[0].Title != "HOME ALONE" || resp.Movies[1].Title != "DARK" {
		t.Errorf("порядок записей нарушен: %+v", resp.Movies)
	}
}

func TestListMovies_Empty(t *testing.T) {
	svc := &mockMovieService{
		findAllFn: func(_ context.Context) ([]*model.Movie, error) {
			return nil, nil
		},
	}

	rec := doJSON(t, newTestRouter(svc), http.MethodGet, "/v1/movies", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d", rec.Code)
	}
	// Пустой список сериализуется как [], а не null
	if got := rec.Body.String(); !bytes.Contains([]byte(got), []byte(`"movies":[]`)) {
		t.Errorf("ожидался пустой массив movies, получено %s", got)
	}
}
