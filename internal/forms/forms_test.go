package forms

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func postRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestAddMovieForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantField string
	}{
		{"valid", "Phone Booth", ""},
		{"blank title", "   ", "title"},
		{"too long", strings.Repeat("x", 251), "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, err := ParseAddMovieForm(postRequest(url.Values{"title": {tt.title}}))
			if err != nil {
				t.Fatalf("ParseAddMovieForm() error = %v", err)
			}
			errs := form.Validate()
			if tt.wantField == "" {
				if errs != nil {
					t.Errorf("Validate() = %v, want nil", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("Validate() = %v, want error on %q", errs, tt.wantField)
			}
		})
	}
}

func TestRateMovieForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		rating    string
		review    string
		wantField string
	}{
		{"both empty", "", "", ""},
		{"decimal rating", "6.8", "", ""},
		{"integer rating", "9", "Loved it", ""},
		{"zero rating", "0", "", ""},
		{"ten rating", "10", "", ""},
		{"negative rating", "-1", "", "rating"},
		{"rating too high", "10.5", "", "rating"},
		{"not a number", "great", "", "rating"},
		{"review too long", "", strings.Repeat("r", 251), "review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, err := ParseRateMovieForm(postRequest(url.Values{
				"rating": {tt.rating},
				"review": {tt.review},
			}))
			if err != nil {
				t.Fatalf("ParseRateMovieForm() error = %v", err)
			}
			errs := form.Validate()
			if tt.wantField == "" {
				if errs != nil {
					t.Errorf("Validate() = %v, want nil", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("Validate() = %v, want error on %q", errs, tt.wantField)
			}
		})
	}
}

func TestRateMovieForm_Update(t *testing.T) {
	tests := []struct {
		name       string
		form       RateMovieForm
		wantRating *float64
		wantReview *string
	}{
		{name: "empty", form: RateMovieForm{}},
		{name: "rating only", form: RateMovieForm{Rating: "7.5"}, wantRating: ptr(7.5)},
		{name: "review only", form: RateMovieForm{Review: "Tense"}, wantReview: ptr("Tense")},
		{name: "both", form: RateMovieForm{Rating: "0", Review: "Bad"}, wantRating: ptr(0.0), wantReview: ptr("Bad")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := tt.form.Update()
			if (update.Rating == nil) != (tt.wantRating == nil) ||
				(update.Rating != nil && *update.Rating != *tt.wantRating) {
				t.Errorf("Update().Rating = %v, want %v", update.Rating, tt.wantRating)
			}
			if (update.Review == nil) != (tt.wantReview == nil) ||
				(update.Review != nil && *update.Review != *tt.wantReview) {
				t.Errorf("Update().Review = %v, want %v", update.Review, tt.wantReview)
			}
		})
	}
}

func TestParseRateMovieForm_TrimsInput(t *testing.T) {
	form, err := ParseRateMovieForm(postRequest(url.Values{"rating": {"  "}, "review": {" \t "}}))
	if err != nil {
		t.Fatalf("ParseRateMovieForm() error = %v", err)
	}
	if !form.Update().Empty() {
		t.Errorf("Update() = %+v, want empty update for whitespace input", form.Update())
	}
}

func TestNewValidator_RegistersRatingRule(t *testing.T) {
	v, err := newValidator()
	if err != nil {
		t.Fatalf("newValidator() error = %v", err)
	}

	tests := []struct {
		rating  string
		wantErr bool
	}{
		{"7.5", false},
		{"11", true},
		{"abc", true},
	}
	for _, tt := range tests {
		err := v.Struct(&RateMovieForm{Rating: tt.rating})
		if (err != nil) != tt.wantErr {
			t.Errorf("Struct(rating=%q) error = %v, wantErr %v", tt.rating, err, tt.wantErr)
		}
	}
}

func ptr[T any](v T) *T { return &v }
