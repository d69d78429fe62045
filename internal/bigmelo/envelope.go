package bigmelo

// Envelope is the normalized result of every remote API call. Data is nil
// whenever the HTTP status is outside 2xx or the body is empty.
type Envelope struct {
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
	Data       any    `json:"data"`
}

// IsSuccess reports whether the envelope carries a successful response.
func IsSuccess(resp Envelope) bool {
	return resp.Status >= 200 && (resp.Status < 300 || resp.Status == 304)
}
