// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package books

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/litbooks/litbooks/internal/platform/middleware"
	requestutil "github.com/litbooks/litbooks/internal/platform/request"
	"github.com/litbooks/litbooks/internal/platform/respond"
	"github.com/litbooks/litbooks/internal/session"
	"github.com/litbooks/litbooks/internal/upstream"
	"github.com/litbooks/litbooks/pkg/pagination"
	"github.com/litbooks/litbooks/pkg/query"
	"github.com/litbooks/litbooks/pkg/slice"
	"github.com/litbooks/litbooks/pkg/slug"
)

// Handler implements the book catalog HTTP endpoints.
//
// # Scope
//
// Every catalog view and dispatched action lands here: the listing with its
// client-side search projection, the detail view, the create/update/delete
// actions, and the admin management view.
type Handler struct {
	bookService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{bookService: service}
}

// Routes returns a [chi.Router] configured with catalog routes.
//
// Every route requires a session; the management view additionally requires
// the admin role.
//
// # Endpoints
//   - GET    /      : The listing view (collection mirror + search projection).
//   - GET    /tags  : Every tag known to the catalog.
//   - GET    /mine  : The management view (admin only).
//   - GET    /{id}  : The detail view.
//   - POST   /      : Creates a book.
//   - PUT    /{id}  : Updates a book.
//   - DELETE /{id}  : Deletes a book (optimistically mirrored).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireSession)

	router.Get("/", handler.list)
	router.Get("/tags", handler.tags)
	router.Get("/{id}", handler.detail)
	router.Post("/", handler.create)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(session.RoleAdmin))
		admin.Get("/mine", handler.mine)
	})

	return router
}

// # View Models

// TagView is a tag as rendered by the views.
type TagView struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// BookView is a book as rendered by the views.
type BookView struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatorID   int       `json:"creator_id"`
	Tags        []TagView `json:"tags"`
}

// Views renders a set of upstream books for callers outside this package,
// such as the home view.
func Views(items []upstream.Book) []BookView {
	return slice.Map(items, toView)
}

// toView maps an upstream book to its rendered shape.
func toView(book upstream.Book) BookView {
	return BookView{
		ID:          book.ID,
		Title:       book.Title,
		Slug:        slug.From(book.Title),
		Author:      book.Author,
		Description: book.Description,
		ImageURL:    book.ImageURL,
		CreatorID:   book.CreatorID,
		Tags: slice.Map(book.Tags, func(tag upstream.Tag) TagView {
			return TagView{Name: tag.Name, Slug: slug.From(tag.Name)}
		}),
	}
}

// listingView is the listing page payload: the search projection plus the
// slice flags the view renders around it.
type listingView struct {
	Books       []BookView `json:"books"`
	SearchQuery string     `json:"search_query"`
	Error       string     `json:"error,omitempty"`
}

// # Handlers

// list handles GET /api/v1/books requests.
//
// # Query Parameters
//   - page, limit : Upstream pagination.
//   - search      : Server-side search, forwarded to the catalog.
//   - tag         : Server-side tag filter, forwarded to the catalog.
//   - q           : Client-side search over the local mirror (title, author,
//     tag names; case-insensitive). Present-but-empty resets it.
//   - tags        : Comma-separated client-side tag narrowing of the result.
//
// # Returns
//   - Writes HTTP 200 OK with the projected listing.
//   - Writes the upstream error otherwise; the previous mirror is kept.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Parameter Extraction ───────────────────────────────────────────

	token := session.FromContext(request.Context()).Token
	params := pagination.FromRequest(request)
	values := request.URL.Query()

	// The q parameter drives the shared search projection
	if values.Has("q") {
		handler.bookService.SetSearchQuery(values.Get("q"))
	}

	// ── 2. Mirror Refresh ─────────────────────────────────────────────────

	_, err := handler.bookService.FetchAll(request.Context(), token, upstream.ListParams{
		Skip:   params.Skip(),
		Limit:  params.Limit,
		Search: values.Get("search"),
		Tag:    values.Get("tag"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Projection & Rendering ─────────────────────────────────────────

	snapshot := handler.bookService.Snapshot()
	projected := snapshot.Filtered

	// Optional client-side narrowing by tag set
	if rawTags := values.Get("tags"); rawTags != "" {
		wanted := query.StringSlice(rawTags)
		projected = slice.Filter(projected, func(book upstream.Book) bool {
			return hasAnyTag(book, wanted)
		})
	}

	views := slice.Map(projected, toView)
	respond.Paginated(writer, listingView{
		Books:       views,
		SearchQuery: snapshot.SearchQuery,
		Error:       snapshot.Error,
	}, pagination.NewMeta(params.Page, params.Limit, len(views)))
}

// detail handles GET /api/v1/books/{id} requests.
func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {

	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token := session.FromContext(request.Context()).Token
	book, err := handler.bookService.FetchOne(request.Context(), token, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, toView(*book))
}

// create handles POST /api/v1/books requests.
//
// # Returns
//   - Writes HTTP 201 Created with the server-assigned book.
//   - Writes HTTP 400 Bad Request if validation rules fail; nothing is sent
//     upstream in that case.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {

	var form Form
	if err := requestutil.DecodeJSON(request, &form); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token := session.FromContext(request.Context()).Token
	book, err := handler.bookService.Create(request.Context(), token, form)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, toView(*book))
}

// update handles PUT /api/v1/books/{id} requests. Absent fields are left
// untouched upstream.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {

	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var form UpdateForm
	if err := requestutil.DecodeJSON(request, &form); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token := session.FromContext(request.Context()).Token
	book, err := handler.bookService.Update(request.Context(), token, id, form)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, toView(*book))
}

// remove handles DELETE /api/v1/books/{id} requests.
//
// # Returns
//   - Writes HTTP 204 No Content on success.
//   - Writes the upstream error after the optimistic removal is rolled back.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {

	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token := session.FromContext(request.Context()).Token
	if err := handler.bookService.Delete(request.Context(), token, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// mine handles GET /api/v1/books/mine requests (admin only).
//
// The management view lists the books created by the signed-in account,
// straight from the catalog.
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {

	token := session.FromContext(request.Context()).Token
	books, err := handler.bookService.Mine(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, slice.Map(books, toView))
}

// tags handles GET /api/v1/books/tags requests.
func (handler *Handler) tags(writer http.ResponseWriter, request *http.Request) {

	token := session.FromContext(request.Context()).Token
	names, err := handler.bookService.Tags(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, slice.Map(names, func(name string) TagView {
		return TagView{Name: name, Slug: slug.From(name)}
	}))
}

// hasAnyTag reports whether the book carries at least one of the wanted tags.
func hasAnyTag(book upstream.Book, wanted []string) bool {
	for _, tag := range book.Tags {
		for _, want := range wanted {
			if tag.Name == want {
				return true
			}
		}
	}
	return false
}
