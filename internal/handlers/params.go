package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"rental-backend/internal/duedate"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

// pathID reads the {id} route variable
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("id", "invalid id")
	}
	return id, nil
}

// pagination reads page and limit; bad values fall back to the defaults
func pagination(r *http.Request) models.Pagination {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.Pagination{Page: page, Limit: limit}
}

// rentalQuery parses the shared list/export filters. startDate and endDate
// bound the creation date, inclusive of whole business days.
func rentalQuery(r *http.Request) (models.RentalFilter, duedate.Filter, error) {
	q := r.URL.Query()
	f := models.RentalFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Page:   pagination(r),
	}

	if v := q.Get("startDate"); v != "" {
		d, err := timeutil.ParseDate(v)
		if err != nil {
			return f, "", models.NewValidationError("startDate", err.Error())
		}
		from := timeutil.StartOfDay(d)
		f.CreatedFrom = &from
	}
	if v := q.Get("endDate"); v != "" {
		d, err := timeutil.ParseDate(v)
		if err != nil {
			return f, "", models.NewValidationError("endDate", err.Error())
		}
		to := timeutil.EndOfDay(d)
		f.CreatedTo = &to
	}
	if v := q.Get("productId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			return f, "", models.NewValidationError("productId", "invalid product id")
		}
		f.ProductID = id
	}

	status, err := duedate.ParseFilter(q.Get("status"))
	if err != nil {
		return f, "", models.NewValidationError("status", err.Error())
	}
	return f, status, nil
}
