// Package servicedef describes the parts of the service's HTTP API that the contract tests
// depend on: endpoint paths, request payloads and the response envelope.
package servicedef

const DefaultBaseURL = "http://localhost:30308"

const (
	IndexPath         = "/api/index"
	StockMovementPath = "/api/stock/movement"
)

// StockMovementType values understood by the stock movement endpoint.
const (
	StockMovementInbound  = 1
	StockMovementOutbound = 2
)

// StockMovementParams is the body of POST /api/stock/movement.
type StockMovementParams struct {
	ItemID         int64   `json:"itemId"`
	Location       string  `json:"location"`
	Type           int     `json:"type"`
	QuantityChange float64 `json:"quantityChange"`
	Note           string  `json:"note"`
}
