package controllers

import (
	"net/http"

	"github.com/angelmondragon/warehouse-console/api/responses"
	"github.com/angelmondragon/warehouse-console/internal/catalog"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
)

// ListProducts returns the matching products with their stock badges and
// counters for the whole inventory.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		filters, err := buildProductFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		var input forms.ProductInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		var input forms.ProductInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, map[string]int64{"id": id})
	}
}

func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		categories, err := svc.ListCategories(r.Context(), catalog.SearchFilters{Query: searchQuery(r)})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

func GetCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		category, err := svc.GetCategory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

func CreateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		var input forms.CategoryInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		category, err := svc.CreateCategory(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusCreated, category)
	}
}

func UpdateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		var input forms.CategoryInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		category, err := svc.UpdateCategory(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, category)
	}
}

func DeleteCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, map[string]int64{"id": id})
	}
}

func ListSuppliers(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		suppliers, err := svc.ListSuppliers(r.Context(), catalog.SearchFilters{Query: searchQuery(r)})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suppliers)
	}
}

func GetSupplier(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		supplier, err := svc.GetSupplier(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}

func CreateSupplier(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		var input forms.SupplierInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		supplier, err := svc.CreateSupplier(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusCreated, supplier)
	}
}

func UpdateSupplier(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		var input forms.SupplierInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		supplier, err := svc.UpdateSupplier(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, supplier)
	}
}

func DeleteSupplier(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		if err := svc.DeleteSupplier(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, map[string]int64{"id": id})
	}
}
