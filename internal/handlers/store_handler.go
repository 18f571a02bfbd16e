package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"dukanBack/internal/models"
	"dukanBack/internal/services"
)

type StoreHandler struct {
	Service *services.StoreService
}

func (h *StoreHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "user not authorized", http.StatusUnauthorized)
		return
	}

	var store models.Store
	if err := json.NewDecoder(r.Body).Decode(&store); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	store.OwnerID = userID

	created, err := h.Service.CreateStore(r.Context(), store)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	store, err := h.Service.GetStore(r.Context(), id)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

// GetMyStore returns the authenticated owner's store.
func (h *StoreHandler) GetMyStore(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "user not authorized", http.StatusUnauthorized)
		return
	}

	store, err := h.Service.GetStoreByOwner(r.Context(), userID)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *StoreHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	var store models.Store
	if err := json.NewDecoder(r.Body).Decode(&store); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	store.ID = id

	if err := h.Service.UpdateProfile(r.Context(), store); err != nil {
		serveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo accepts a multipart image, pushes it to object storage and saves
// the URL on the store.
func (h *StoreHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		http.Error(w, "logo file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	url, err := h.Service.UploadLogo(r.Context(), id, header.Filename, data, header.Header.Get("Content-Type"))
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"logo_url": url})
}

// PublicStore serves the public storefront profile by slug.
func (h *StoreHandler) PublicStore(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get(":slug")
	if slug == "" {
		http.Error(w, "invalid store slug", http.StatusBadRequest)
		return
	}

	store, err := h.Service.GetStoreBySlug(r.Context(), slug)
	if err != nil {
		serveError(w, err)
		return
	}
	store.ThemeCSS = "" // served separately, cache-backed
	writeJSON(w, http.StatusOK, store)
}

// PublicTheme serves the published stylesheet for the storefront.
func (h *StoreHandler) PublicTheme(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get(":slug")
	if slug == "" {
		http.Error(w, "invalid store slug", http.StatusBadRequest)
		return
	}

	css, err := h.Service.PublicTheme(r.Context(), slug)
	if err != nil {
		serveError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write([]byte(css))
}
