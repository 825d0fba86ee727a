package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/catalog-admin/internal/http/flash"
)

type clientFormView struct {
	Action string
	Form   ClientForm
}

func (s *Server) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.List(r.Context())
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "clients", View{Title: "Clientes", Data: clients})
}

func (s *Server) renderClientForm(w http.ResponseWriter, r *http.Request, status int, title, action string, form ClientForm, errs map[string]string) {
	s.render(w, r, status, "client_form", View{
		Title:  title,
		Errors: errs,
		Data:   clientFormView{Action: action, Form: form},
	})
}

func (s *Server) NewClientForm(w http.ResponseWriter, r *http.Request) {
	s.renderClientForm(w, r, http.StatusOK, "Nuevo cliente", "/clientes/nuevo", ClientForm{}, nil)
}

func (s *Server) CreateClient(w http.ResponseWriter, r *http.Request) {
	form := readClientForm(r)
	c, err := s.toClient(form)
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.renderClientForm(w, r, http.StatusBadRequest, "Nuevo cliente", "/clientes/nuevo", form, verr.Map())
		return
	}

	created, err := s.clients.Create(r.Context(), c)
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	s.log.Info().Int("client_id", created.ID).Msg("client created")
	flash.Add(w, r, flash.Success, "Cliente agregado correctamente.")
	redirect(w, r, "/clientes")
}

func (s *Server) EditClientForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	c, err := s.clients.GetByID(r.Context(), id)
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	form := ClientForm{Name: c.Name, Email: c.Email}
	s.renderClientForm(w, r, http.StatusOK, "Editar cliente", "/clientes/editar/"+strconv.Itoa(id), form, nil)
}

func (s *Server) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Fail(w, r, err)
		return
	}

	form := readClientForm(r)
	c, err := s.toClient(form)
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.renderClientForm(w, r, http.StatusBadRequest, "Editar cliente", "/clientes/editar/"+strconv.Itoa(id), form, verr.Map())
		return
	}

	c.ID = id
	if err := s.clients.Update(r.Context(), c); err != nil {
		s.Fail(w, r, err)
		return
	}
	s.log.Info().Int("client_id", id).Msg("client updated")
	flash.Add(w, r, flash.Success, "Cliente actualizado correctamente.")
	redirect(w, r, "/clientes")
}

func (s *Server) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	if err := s.clients.Delete(r.Context(), id); err != nil {
		s.Fail(w, r, err)
		return
	}
	s.log.Info().Int("client_id", id).Msg("client deleted")
	flash.Add(w, r, flash.Success, "Cliente eliminado correctamente.")
	redirect(w, r, "/clientes")
}

