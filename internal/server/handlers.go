package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"watchlist/internal/api"
	"watchlist/internal/listsvc"
	"watchlist/internal/services"
	"watchlist/internal/watchlist"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req api.CreateListRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.lists.CreateList(r.Context(), req.Name, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.FromList(list))
}

func (s *Server) handleListIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.lists.ListIDs(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, api.ListIDsResponse{IDs: ids})
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	list, err := s.lists.GetList(r.Context(), mux.Vars(r)["id"], credential(r))
	s.respondList(w, r, list, err)
}

func (s *Server) handleRenameList(w http.ResponseWriter, r *http.Request) {
	var req api.RenameListRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.lists.RenameList(r.Context(), mux.Vars(r)["id"], credential(r), req.Name)
	s.respondList(w, r, list, err)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.DeleteList(r.Context(), mux.Vars(r)["id"], credential(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req api.SetPasswordRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.lists.SetPassword(r.Context(), mux.Vars(r)["id"], credential(r), req.Password)
	s.respondList(w, r, list, err)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req api.AddItemRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.lists.AddItem(r.Context(), mux.Vars(r)["id"], credential(r), listsvc.NewItem{
		ID:             req.ID,
		Title:          req.Title,
		AddedBy:        req.AddedBy,
		Poster:         req.Poster,
		RuntimeMinutes: req.RuntimeMinutes,
		ReleaseDate:    req.ReleaseDate,
		Rating:         req.Rating,
	})
	s.respondList(w, r, list, err)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req api.PatchItemRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	vars := mux.Vars(r)
	list, err := s.lists.UpdateItem(r.Context(), vars["id"], credential(r), vars["itemId"], req.Patch())
	s.respondList(w, r, list, err)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	list, err := s.lists.RemoveItem(r.Context(), vars["id"], credential(r), vars["itemId"])
	s.respondList(w, r, list, err)
}

func (s *Server) handleMutation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, r, services.Wrap(services.ErrMalformed, "api", "read body", "", err))
		return
	}
	mutation, _, err := api.DecodeMutation(body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.lists.ApplyMutation(r.Context(), mux.Vars(r)["id"], credential(r), mutation)
	s.respondList(w, r, list, err)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		s.fail(w, r, errCatalogDisabled)
		return
	}
	movies, err := s.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromMovies(movies))
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		s.fail(w, r, errCatalogDisabled)
		return
	}
	movieID, err := strconv.ParseInt(strings.TrimSpace(mux.Vars(r)["movieId"]), 10, 64)
	if err != nil || movieID <= 0 {
		s.fail(w, r, services.Wrap(services.ErrValidation, "api", "movie details", "movie id must be a positive integer", nil))
		return
	}
	details, err := s.catalog.MovieDetails(r.Context(), movieID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromDetails(details))
}

var errCatalogDisabled = services.Wrap(services.ErrUpstream, "api", "catalog", "tmdb api key not configured", nil)

func (s *Server) respondList(w http.ResponseWriter, r *http.Request, list watchlist.List, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromList(list))
}

// decode reads a JSON body into dst. Unknown fields are ignored so older
// servers accept newer clients.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return services.Wrap(services.ErrMalformed, "api", "decode body", "request body is empty", nil)
		}
		return services.Wrap(services.ErrMalformed, "api", "decode body", "", err)
	}
	return nil
}

func credential(r *http.Request) string {
	return r.Header.Get(api.HeaderPassword)
}
