package models

// HourlyPoint is one observed value in an hourly trend response.
type HourlyPoint struct {
	Hour  int     `json:"hour"`
	Value float64 `json:"value"`
}

// HourlyTrendResponse is the body of GET /api/trend/hourly. Data holds
// one entry per matching reading; hours with no reading are absent.
type HourlyTrendResponse struct {
	Data []HourlyPoint `json:"data"`
}

// DailyPoint is one calendar day in a daily trend response. Value is
// null for days with no qualifying readings.
type DailyPoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// DailyTrendResponse is the body of GET /api/trend/daily. Data always
// holds one entry per calendar day of the requested month.
type DailyTrendResponse struct {
	Data []DailyPoint `json:"data"`
}
