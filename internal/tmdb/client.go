// Пакет tmdb — HTTP-клиент поиска в The Movie Database.
// Один исходящий запрос к search endpoint, без ретраев и кэширования:
// результат каждого вызова синхронно возвращается вызывающему коду.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Category — категория поиска: фильм или сериал.
// Определяет путь search endpoint и имя параметра года.
type Category string

const (
	// CategoryMovie — полнометражный фильм.
	CategoryMovie Category = "MOVIE"
	// CategoryTVShow — сериал.
	CategoryTVShow Category = "TV_SHOW"
)

// Пути и параметры TMDB search API.
const (
	moviePath  = "/3/search/movie"
	tvShowPath = "/3/search/tv"

	paramAPIKey = "api_key"
	paramQuery  = "query"
	// Имя параметра года различается по категории
	paramMovieYear  = "year"
	paramTVShowYear = "first_air_date_year"
)

// ErrLookupUnavailable — сбой HTTP-обмена с TMDB или недекодируемый ответ.
// Отсутствие результатов ошибкой не является — возвращается пустой список.
var ErrLookupUnavailable = errors.New("TMDB недоступен")

// LookupQuery — параметры одного поискового запроса.
type LookupQuery struct {
	// Title — название для поиска (не пустое, гарантируется вызывающим кодом)
	Title string
	// Category — MOVIE или TV_SHOW
	Category Category
	// Year — год выхода
	Year int
}

// Candidate — один результат поиска TMDB.
// Остальные поля ответа игнорируются.
type Candidate struct {
	// Description — описание (поле overview)
	Description string `json:"overview"`
	// Rating — рейтинг (поле vote_average)
	Rating float64 `json:"vote_average"`
}

// searchResponse — форма ответа TMDB search endpoint.
type searchResponse struct {
	Results []Candidate `json:"results"`
}

// Client — HTTP-клиент TMDB.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// New создаёт TMDB-клиент.
// baseURL — базовый URL API (например, https://api.themoviedb.org).
// apiKey — API-ключ TMDB (из конфигурации MM_TMDB_API_KEY).
// timeout — таймаут HTTP-запросов (из конфигурации MM_TMDB_TIMEOUT).
func New(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.With(slog.String("component", "tmdb_client")),
	}
}

// Search выполняет поиск кандидатов по запросу.
// Возвращает список результатов в порядке TMDB, возможно пустой.
// Проверка количества кандидатов — ответственность вызывающего кода.
func (c *Client) Search(ctx context.Context, q LookupQuery) ([]Candidate, error) {
	reqURL := c.buildURL(q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса Search: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: запрос Search: %v", ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: TMDB вернул статус %d", ErrLookupUnavailable, resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: декодирование ответа: %v", ErrLookupUnavailable, err)
	}

	c.logger.Debug("Поиск TMDB выполнен",
		slog.String("title", q.Title),
		slog.String("category", string(q.Category)),
		slog.Int("year", q.Year),
		slog.Int("results", len(searchResp.Results)),
	)

	return searchResp.Results, nil
}

// buildURL строит URL search endpoint для запроса.
// Путь и имя параметра года выбираются по категории.
func (c *Client) buildURL(q LookupQuery) string {
	path := moviePath
	yearParam := paramMovieYear
	if q.Category == CategoryTVShow {
		path = tvShowPath
		yearParam = paramTVShowYear
	}

	params := url.Values{}
	params.Set(paramAPIKey, c.apiKey)
	params.Set(paramQuery, q.Title)
	params.Set(yearParam, strconv.Itoa(q.Year))

	return c.baseURL + path + "?" + params.Encode()
}
