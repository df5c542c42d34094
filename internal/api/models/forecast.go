package models

// ForecastRequest is the body of POST /api/forecast. Hours defaults to
// 72 when omitted.
type ForecastRequest struct {
	Station string `json:"station"`
	Hours   int    `json:"hours,omitempty"`
}
