// Package forms parses and validates the search and rating forms.
package forms

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/user/top-movies-go/internal/store"
)

// CSRFField is the name of the hidden token input the csrf middleware reads
const CSRFField = "csrf_token"

// Rating bounds accepted by the rating form
const (
	MinRating = 0.0
	MaxRating = 10.0
)

var validate = mustNewValidator()

func mustNewValidator() *validator.Validate {
	v, err := newValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// rating accepts a decimal between MinRating and MaxRating
	if err := v.RegisterValidation("rating", validRating); err != nil {
		return nil, fmt.Errorf("failed to register rating validation: %w", err)
	}
	return v, nil
}

func validRating(fl validator.FieldLevel) bool {
	r, err := strconv.ParseFloat(fl.Field().String(), 64)
	return err == nil && r >= MinRating && r <= MaxRating
}

// Errors maps a form field name to a message for the user
type Errors map[string]string

// AddMovieForm searches the provider by title
type AddMovieForm struct {
	Title string `form:"title" validate:"required,max=250"`
}

// RateMovieForm edits rating and review; empty inputs leave the stored values alone
type RateMovieForm struct {
	Rating string `form:"rating" validate:"omitempty,rating"`
	Review string `form:"review" validate:"max=250"`
}

// ParseAddMovieForm reads an AddMovieForm from a submitted request
func ParseAddMovieForm(r *http.Request) (*AddMovieForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	return &AddMovieForm{
		Title: strings.TrimSpace(r.PostFormValue("title")),
	}, nil
}

// ParseRateMovieForm reads a RateMovieForm from a submitted request
func ParseRateMovieForm(r *http.Request) (*RateMovieForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	return &RateMovieForm{
		Rating: strings.TrimSpace(r.PostFormValue("rating")),
		Review: strings.TrimSpace(r.PostFormValue("review")),
	}, nil
}

// Validate checks the form; it returns nil when the form is valid
func (f *AddMovieForm) Validate() Errors {
	return check(f)
}

// Validate checks the form; it returns nil when the form is valid
func (f *RateMovieForm) Validate() Errors {
	return check(f)
}

// Update converts the form into a partial store update.
// Call only after Validate succeeded.
func (f *RateMovieForm) Update() store.MovieUpdate {
	var update store.MovieUpdate
	if f.Rating != "" {
		if r, err := strconv.ParseFloat(f.Rating, 64); err == nil {
			update.Rating = &r
		}
	}
	if f.Review != "" {
		review := f.Review
		update.Review = &review
	}
	return update
}

func check(form interface{}) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"form": err.Error()}
	}

	errs := make(Errors, len(verrs))
	for _, fe := range verrs {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "rating":
		return fmt.Sprintf("Rating must be a number between %g and %g.", MinRating, MaxRating)
	default:
		return "Invalid value."
	}
}
