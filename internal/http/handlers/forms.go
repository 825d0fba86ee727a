package handlers

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the form fields that were rejected.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Map returns the first message per field, keyed by form field name.
func (e *ValidationError) Map() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := m[f.Field]; !ok {
			m[f.Field] = f.Message
		}
	}
	return m
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es obligatorio."
	case "email":
		return "Introduce un correo electrónico válido."
	case "max":
		return fmt.Sprintf("No puede superar %s caracteres.", fe.Param())
	default:
		return "Valor no válido."
	}
}

func (s *Server) check(form any, verr *ValidationError) {
	err := s.validate.Struct(form)
	if err == nil {
		return
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.add("form", err.Error())
		return
	}
	for _, fe := range errs {
		verr.add(fe.Field(), fieldMessage(fe))
	}
}

type ProductForm struct {
	Name     string `form:"nombre" validate:"required,max=100"`
	Price    string `form:"precio" validate:"required"`
	Category string `form:"categoria"`
	Brand    string `form:"marca"`
}

func readProductForm(r *http.Request) ProductForm {
	return ProductForm{
		Name:     strings.TrimSpace(r.PostFormValue("nombre")),
		Price:    strings.TrimSpace(r.PostFormValue("precio")),
		Category: strings.TrimSpace(r.PostFormValue("categoria")),
		Brand:    strings.TrimSpace(r.PostFormValue("marca")),
	}
}

func productFormFrom(p models.Product) ProductForm {
	f := ProductForm{Name: p.Name, Price: p.Price.StringFixed(2)}
	if p.CategoryID != nil {
		f.Category = strconv.Itoa(*p.CategoryID)
	}
	if p.BrandID != nil {
		f.Brand = strconv.Itoa(*p.BrandID)
	}
	return f
}

// toProduct validates the form and converts it. categories and brands are the
// ids a selection may refer to.
func (s *Server) toProduct(f ProductForm, categories, brands map[int]bool) (models.Product, error) {
	verr := &ValidationError{}
	s.check(f, verr)

	var p models.Product
	p.Name = f.Name

	if !verr.has("precio") {
		price, err := parsePrice(f.Price)
		switch {
		case err != nil:
			verr.add("precio", "Introduce un precio numérico, por ejemplo 19.99.")
		case price.IsNegative():
			verr.add("precio", "El precio no puede ser negativo.")
		case !price.Equal(price.Truncate(priceDecimals)):
			verr.add("precio", "El precio admite como máximo 2 decimales.")
		case price.GreaterThanOrEqual(maxPrice):
			verr.add("precio", "El precio debe ser menor que 100000000.")
		default:
			p.Price = price
		}
	}

	var err error
	if p.CategoryID, err = optionalID(f.Category, categories); err != nil {
		verr.add("categoria", "Selecciona una categoría válida.")
	}
	if p.BrandID, err = optionalID(f.Brand, brands); err != nil {
		verr.add("marca", "Selecciona una marca válida.")
	}

	if err := verr.orNil(); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Prices are stored as DECIMAL(10,2).
const priceDecimals = 2

var maxPrice = decimal.New(1, 8)

// parsePrice accepts a comma as decimal separator.
func parsePrice(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
}

var errUnknownID = fmt.Errorf("unknown id")

// optionalID maps "" to NULL and otherwise requires an id present in known.
func optionalID(raw string, known map[int]bool) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 || !known[id] {
		return nil, errUnknownID
	}
	return &id, nil
}

type ClientForm struct {
	Name  string `form:"nombre" validate:"required,max=100"`
	Email string `form:"mail" validate:"required,email,max=100"`
}

func readClientForm(r *http.Request) ClientForm {
	return ClientForm{
		Name:  strings.TrimSpace(r.PostFormValue("nombre")),
		Email: strings.TrimSpace(r.PostFormValue("mail")),
	}
}

func (s *Server) toClient(f ClientForm) (models.Client, error) {
	verr := &ValidationError{}
	s.check(f, verr)
	if err := verr.orNil(); err != nil {
		return models.Client{}, err
	}
	return models.Client{Name: f.Name, Email: f.Email}, nil
}
