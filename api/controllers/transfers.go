package controllers

import (
	"net/http"

	"github.com/angelmondragon/warehouse-console/api/responses"
	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/internal/transfers"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
)

func ListTransfers(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "stock transfer")
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

func GetTransfer(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "stock transfer")
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

func CreateTransfer(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "stock transfer")
			return
		}
		var input forms.StockTransferInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		view, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusCreated, view)
	}
}

func UpdateTransfer(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "stock transfer")
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		var input forms.TransferUpdateInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		transfer, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, transfer)
	}
}

func DeleteTransfer(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "stock transfer")
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

func UpdateTransferItem(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "stock transfer")
			return
		}
		transferID, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		itemID, ok := pathID(w, r, logg, "itemID")
		if !ok {
			return
		}
		var input forms.TransferItemInput
		if !decodeBody(w, r, logg, &input) {
			return
		}
		input.StockTransferID = transferID
		item, err := svc.UpdateItem(r.Context(), itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, item)
	}
}

func DeleteTransferItem(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "stock transfer")
			return
		}
		transferID, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		itemID, ok := pathID(w, r, logg, "itemID")
		if !ok {
			return
		}
		if err := svc.DeleteItem(r.Context(), transferID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(r.Context(), w, http.StatusOK, map[string]int64{"id": itemID})
	}
}
