package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/readingorder/internal/domain"
	"github.com/listenupapp/readingorder/internal/store"
)

func (s *Server) registerSeriesRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSeries",
		Method:      http.MethodGet,
		Path:        "/api/v1/series",
		Summary:     "List series",
		Description: "Returns a paginated list of series. The sqlite backend orders by name, badger by key.",
		Tags:        []string{"Series"},
	}, s.handleListSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSeries",
		Method:      http.MethodGet,
		Path:        "/api/v1/series/{id}",
		Summary:     "Get series",
		Description: "Returns a series with its reading-order state",
		Tags:        []string{"Series"},
	}, s.handleGetSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSeriesBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/series/{id}/books",
		Summary:     "Get series books in reading order",
		Description: "Returns the books of a series in its reading order. Pass mode to preview another order without saving it.",
		Tags:        []string{"Series"},
	}, s.handleGetSeriesBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "changeReadingOrder",
		Method:      http.MethodPut,
		Path:        "/api/v1/series/{id}/reading-order",
		Summary:     "Change reading order mode",
		Description: "Switches the reading-order mode. The first switch to custom seeds the custom order from the series membership.",
		Tags:        []string{"Series"},
	}, s.handleChangeReadingOrder)

	huma.Register(s.api, huma.Operation{
		OperationID: "setCustomOrder",
		Method:      http.MethodPut,
		Path:        "/api/v1/series/{id}/custom-order",
		Summary:     "Set custom order",
		Description: "Replaces the custom order and switches the series to custom mode",
		Tags:        []string{"Series"},
	}, s.handleSetCustomOrder)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/series/{id}/custom-order/move",
		Summary:     "Move a book within the custom order",
		Description: "Moves a book to a new index in the custom order. Out-of-range indexes are clamped.",
		Tags:        []string{"Series"},
	}, s.handleMoveBook)
}

// === DTOs ===

// SeriesResponse is the API representation of a series.
type SeriesResponse struct {
	ID           string    `json:"id" doc:"Series ID"`
	Name         string    `json:"name" doc:"Series name"`
	Description  string    `json:"description,omitempty" doc:"Series description"`
	BookIDs      []string  `json:"book_ids" doc:"Member book IDs in insertion order"`
	ReadingOrder string    `json:"reading_order" doc:"Reading-order mode"`
	CustomOrder  []string  `json:"custom_order,omitempty" doc:"User-defined book order"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update time"`
}

// BookResponse is a book within an ordered listing.
type BookResponse struct {
	Index                 int        `json:"index" doc:"Zero-based position in the reading order"`
	ID                    string     `json:"id" doc:"Book ID"`
	Title                 string     `json:"title" doc:"Book title"`
	PublishedAt           *time.Time `json:"published_at,omitempty" doc:"Publication date"`
	ChronologicalPosition *float64   `json:"chronological_position,omitempty" doc:"In-story timeline position"`
}

// ListSeriesInput contains parameters for listing series.
type ListSeriesInput struct {
	Cursor string `query:"cursor" doc:"Pagination cursor"`
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" doc:"Items per page (default 100)"`
}

// ListSeriesResponse contains a page of series.
type ListSeriesResponse struct {
	Series     []SeriesResponse `json:"series" doc:"Series on this page"`
	NextCursor string           `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool             `json:"has_more" doc:"Whether more pages exist"`
	Total      int              `json:"total,omitempty" doc:"Total number of series, when known"`
}

// ListSeriesOutput wraps the list series response for Huma.
type ListSeriesOutput struct {
	Body ListSeriesResponse
}

// GetSeriesInput contains parameters for getting a series.
type GetSeriesInput struct {
	ID string `path:"id" doc:"Series ID"`
}

// SeriesOutput wraps a single series for Huma.
type SeriesOutput struct {
	Body SeriesResponse
}

// GetSeriesBooksInput contains parameters for listing a series' books.
type GetSeriesBooksInput struct {
	ID   string `path:"id" doc:"Series ID"`
	Mode string `query:"mode" doc:"Preview this mode instead of the saved one (publication, chronological, custom)"`
}

// SeriesBooksResponse lists books in reading order.
type SeriesBooksResponse struct {
	SeriesID string         `json:"series_id" doc:"Series ID"`
	Mode     string         `json:"mode" doc:"Mode the books were ordered by"`
	Preview  bool           `json:"preview" doc:"True when the mode differs from the saved one"`
	Books    []BookResponse `json:"books" doc:"Books in reading order"`
}

// SeriesBooksOutput wraps the series books response for Huma.
type SeriesBooksOutput struct {
	Body SeriesBooksResponse
}

// ChangeReadingOrderRequest is the request body for changing the mode.
type ChangeReadingOrderRequest struct {
	Mode string `json:"mode" validate:"required,reading_order" doc:"publication, chronological, or custom"`
}

// ChangeReadingOrderInput wraps the change mode request for Huma.
type ChangeReadingOrderInput struct {
	ID   string `path:"id" doc:"Series ID"`
	Body ChangeReadingOrderRequest
}

// SetCustomOrderRequest is the request body for replacing the custom order.
type SetCustomOrderRequest struct {
	BookIDs []string `json:"book_ids" validate:"unique_ids" doc:"Book IDs in the desired reading order"`
}

// SetCustomOrderInput wraps the set custom order request for Huma.
type SetCustomOrderInput struct {
	ID   string `path:"id" doc:"Series ID"`
	Body SetCustomOrderRequest
}

// MoveBookRequest is the request body for moving one book.
type MoveBookRequest struct {
	BookID string `json:"book_id" validate:"required" doc:"Book to move"`
	Index  int    `json:"index" doc:"Target zero-based index, clamped into range"`
}

// MoveBookInput wraps the move book request for Huma.
type MoveBookInput struct {
	ID   string `path:"id" doc:"Series ID"`
	Body MoveBookRequest
}

// === Handlers ===

func (s *Server) handleListSeries(ctx context.Context, input *ListSeriesInput) (*ListSeriesOutput, error) {
	params := store.PaginationParams{Limit: input.Limit, Cursor: input.Cursor}
	params.Validate()

	page, err := s.store.ListSeries(ctx, params)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list series", err)
	}

	resp := ListSeriesResponse{
		Series:     make([]SeriesResponse, 0, len(page.Items)),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
		Total:      page.Total,
	}
	for _, series := range page.Items {
		resp.Series = append(resp.Series, toSeriesResponse(series))
	}

	return &ListSeriesOutput{Body: resp}, nil
}

func (s *Server) handleGetSeries(ctx context.Context, input *GetSeriesInput) (*SeriesOutput, error) {
	series, err := s.store.GetSeries(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("series not found")
		}
		return nil, huma.Error500InternalServerError("failed to get series", err)
	}

	return &SeriesOutput{Body: toSeriesResponse(series)}, nil
}

func (s *Server) handleGetSeriesBooks(ctx context.Context, input *GetSeriesBooksInput) (*SeriesBooksOutput, error) {
	var (
		series *domain.Series
		books  []*domain.Book
		err    error
	)
	if input.Mode == "" {
		series, books, err = s.services.ReadingOrder.SeriesBooks(ctx, input.ID)
	} else {
		series, books, err = s.services.ReadingOrder.PreviewOrder(ctx, input.ID, domain.ReadingOrderMode(input.Mode))
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load series books", err)
	}
	if series == nil {
		return nil, huma.Error404NotFound("series not found")
	}

	mode := series.ReadingOrder
	if input.Mode != "" {
		mode = domain.ReadingOrderMode(input.Mode)
	}

	resp := SeriesBooksResponse{
		SeriesID: series.ID,
		Mode:     mode.String(),
		Preview:  mode != series.ReadingOrder,
		Books:    make([]BookResponse, 0, len(books)),
	}
	for i, book := range books {
		resp.Books = append(resp.Books, BookResponse{
			Index:                 i,
			ID:                    book.ID,
			Title:                 book.Title,
			PublishedAt:           book.PublishedAt,
			ChronologicalPosition: book.ChronologicalPosition,
		})
	}

	return &SeriesBooksOutput{Body: resp}, nil
}

func (s *Server) handleChangeReadingOrder(ctx context.Context, input *ChangeReadingOrderInput) (*SeriesOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, huma.Error400BadRequest("invalid reading order", err)
	}

	series, err := s.services.ReadingOrder.ChangeMode(ctx, input.ID, domain.ReadingOrderMode(input.Body.Mode))
	return seriesResult(series, err, "failed to change reading order")
}

func (s *Server) handleSetCustomOrder(ctx context.Context, input *SetCustomOrderInput) (*SeriesOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, huma.Error400BadRequest("invalid custom order", err)
	}

	series, err := s.services.ReadingOrder.SetCustomOrder(ctx, input.ID, input.Body.BookIDs)
	return seriesResult(series, err, "failed to set custom order")
}

func (s *Server) handleMoveBook(ctx context.Context, input *MoveBookInput) (*SeriesOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, huma.Error400BadRequest("invalid move", err)
	}

	series, err := s.services.ReadingOrder.ReorderBook(ctx, input.ID, input.Body.BookID, input.Body.Index)
	return seriesResult(series, err, "failed to move book")
}

// seriesResult maps the (series, error) pair returned by mutations.
// A nil series without error means the series does not exist.
func seriesResult(series *domain.Series, err error, failure string) (*SeriesOutput, error) {
	if err != nil {
		return nil, huma.Error500InternalServerError(failure, err)
	}
	if series == nil {
		return nil, huma.Error404NotFound("series not found")
	}
	return &SeriesOutput{Body: toSeriesResponse(series)}, nil
}

func toSeriesResponse(series *domain.Series) SeriesResponse {
	bookIDs := series.BookIDs
	if bookIDs == nil {
		bookIDs = []string{}
	}
	return SeriesResponse{
		ID:           series.ID,
		Name:         series.Name,
		Description:  series.Description,
		BookIDs:      bookIDs,
		ReadingOrder: series.ReadingOrder.String(),
		CustomOrder:  series.CustomOrder,
		CreatedAt:    series.CreatedAt,
		UpdatedAt:    series.UpdatedAt,
	}
}
