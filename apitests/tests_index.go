package apitests

import (
	"net/http"

	"github.com/erp-core/e2e-api-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoIndexTests(t *T) {
	t.Run("returns envelope", func(t *T) {
		resp := t.RequireResponse(t.Client().Get(servicedef.IndexPath), http.StatusOK)
		t.RequireEnvelope(resp)
	})

	t.Run("envelope metadata", func(t *T) {
		resp := t.RequireResponse(t.Client().Get(servicedef.IndexPath), http.StatusOK)
		body := t.RequireEnvelope(resp)
		t.AssertType(body, servicedef.FieldSuccess, ldvalue.BoolType)
		t.AssertType(body, servicedef.FieldMessage, ldvalue.StringType)
		t.AssertType(body, servicedef.FieldBusinessCode, ldvalue.NumberType)
	})
}
