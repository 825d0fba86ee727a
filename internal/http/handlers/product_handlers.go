package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/catalog-admin/internal/http/flash"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
)

type productFormView struct {
	Action     string
	Form       ProductForm
	Categories []models.Category
	Brands     []models.Brand
}

func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	result, err := s.products.List(r.Context(), repo.PageRequest{Page: page, PageSize: s.pageSize})
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "products", View{Title: "Productos", Data: result})
}

func (s *Server) loadLookups(ctx context.Context) ([]models.Category, []models.Brand, error) {
	categories, err := s.lookups.Categories(ctx)
	if err != nil {
		return nil, nil, err
	}
	brands, err := s.lookups.Brands(ctx)
	if err != nil {
		return nil, nil, err
	}
	return categories, brands, nil
}

func (s *Server) renderProductForm(w http.ResponseWriter, r *http.Request, status int, title, action string, form ProductForm, errs map[string]string) {
	categories, brands, err := s.loadLookups(r.Context())
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	s.render(w, r, status, "product_form", View{
		Title:  title,
		Errors: errs,
		Data:   productFormView{Action: action, Form: form, Categories: categories, Brands: brands},
	})
}

// parseProduct reads and validates the posted form against the current lookups.
func (s *Server) parseProduct(r *http.Request) (ProductForm, models.Product, error) {
	form := readProductForm(r)
	categories, brands, err := s.loadLookups(r.Context())
	if err != nil {
		return form, models.Product{}, err
	}

	knownCategories := make(map[int]bool, len(categories))
	for _, c := range categories {
		knownCategories[c.ID] = true
	}
	knownBrands := make(map[int]bool, len(brands))
	for _, b := range brands {
		knownBrands[b.ID] = true
	}

	p, err := s.toProduct(form, knownCategories, knownBrands)
	return form, p, err
}

func (s *Server) NewProductForm(w http.ResponseWriter, r *http.Request) {
	s.renderProductForm(w, r, http.StatusOK, "Nuevo producto", "/productos/nuevo", ProductForm{}, nil)
}

func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form, p, err := s.parseProduct(r)
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.renderProductForm(w, r, http.StatusBadRequest, "Nuevo producto", "/productos/nuevo", form, verr.Map())
		return
	}
	if err != nil {
		s.Fail(w, r, err)
		return
	}

	created, err := s.products.Create(r.Context(), p)
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	s.log.Info().Int("product_id", created.ID).Msg("product created")
	flash.Add(w, r, flash.Success, "Producto agregado correctamente.")
	redirect(w, r, "/productos")
}

func (s *Server) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	p, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	s.renderProductForm(w, r, http.StatusOK, "Editar producto", "/productos/editar/"+strconv.Itoa(id), productFormFrom(p), nil)
}

func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Fail(w, r, err)
		return
	}

	form, p, err := s.parseProduct(r)
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.renderProductForm(w, r, http.StatusBadRequest, "Editar producto", "/productos/editar/"+strconv.Itoa(id), form, verr.Map())
		return
	}
	if err != nil {
		s.Fail(w, r, err)
		return
	}

	p.ID = id
	if err := s.products.Update(r.Context(), p); err != nil {
		s.Fail(w, r, err)
		return
	}
	s.log.Info().Int("product_id", id).Msg("product updated")
	flash.Add(w, r, flash.Success, "Producto actualizado correctamente.")
	redirect(w, r, "/productos")
}

func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	if err := s.products.Delete(r.Context(), id); err != nil {
		s.Fail(w, r, err)
		return
	}
	s.log.Info().Int("product_id", id).Msg("product deleted")
	flash.Add(w, r, flash.Success, "Producto eliminado correctamente.")
	redirect(w, r, "/productos")
}
