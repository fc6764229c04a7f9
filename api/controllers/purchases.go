package controllers

import (
	"net/http"

	"github.com/angelmondragon/warehouse-console/api/responses"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/purchases"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
)

func ListPurchases(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "purchase")
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetPurchase(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "purchase")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CreatePurchase posts the purchase and its lines in one request. A failed
// line keeps the upstream status and names the step in the error details.
func CreatePurchase(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "purchase")
			return
		}
		var input forms.PurchaseInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		view, err := svc.CreateWithItems(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusCreated, view)
	}
}

func UpdatePurchase(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "purchase")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		var input forms.PurchaseUpdateInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		purchase, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, purchase)
	}
}

func DeletePurchase(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "purchase")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, map[string]int64{"id": id})
	}
}

func UpdatePurchaseItem(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "purchase")
			return
		}
		purchaseID, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		itemID, ok := pathID(w, r, logg, "itemID")
		if !ok {
			return
		}
		var input forms.PurchaseItemInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		input.PurchaseID = purchaseID
		item, err := svc.UpdateItem(r.Context(), itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, item)
	}
}

func DeletePurchaseItem(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "purchase")
			return
		}
		purchaseID, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		itemID, ok := pathID(w, r, logg, "itemID")
		if !ok {
			return
		}
		if err := svc.DeleteItem(r.Context(), purchaseID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, map[string]int64{"id": itemID})
	}
}
