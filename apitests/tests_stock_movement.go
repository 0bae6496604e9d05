package apitests

import (
	"net/http"

	"github.com/erp-core/e2e-api-tests/servicedef"
)

// Repeated runs add stock each time; the service's resulting state is not checked.
func restockPayload() servicedef.StockMovementParams {
	return servicedef.StockMovementParams{
		ItemID:         1,
		Location:       "MainWarehouse",
		Type:           servicedef.StockMovementInbound,
		QuantityChange: 10.5,
		Note:           "Restock",
	}
}

func DoStockMovementTests(t *T) {
	t.Run("creates a stock movement", func(t *T) {
		req := t.Client().Post(servicedef.StockMovementPath).Send(restockPayload())
		resp := t.RequireResponse(req, http.StatusOK)

		body := t.RequireEnvelope(resp)
		t.RequireBool(body, servicedef.FieldSuccess, true)
		data := t.RequireNestedObject(body, servicedef.FieldData)
		t.RequireKeys(data, "data", servicedef.FieldSuccess)
	})

	t.Run("rejects invalid item", func(t *T) {
		payload := restockPayload()
		payload.ItemID = 0
		req := t.Client().Post(servicedef.StockMovementPath).Send(payload)
		resp := t.RequireResponse(req, http.StatusBadRequest)

		body := t.RequireObject(resp)
		t.RequireBool(body, servicedef.FieldSuccess, false)
	})
}
