package listing

// Package listing holds wire types for job listings and promotion
// packages. Screens and the API client share these shapes; JSON tags
// follow the backend's field names.

// Listing is a job ad as returned by the backend. A partially filled
// Listing also serves as the draft carried into the edit screen.
type Listing struct {
	ID          int64  `json:"id"`
	EmployerID  int64  `json:"isverenId,omitempty"`
	Title       string `json:"baslik"`
	City        string `json:"sehir"`
	Salary      string `json:"maas,omitempty"`
	Description string `json:"aciklama"`
}

// Package is a paid promotion package selectable on the payment screen.
type Package struct {
	ID    int64   `json:"id"`
	Name  string  `json:"ad"`
	Price float64 `json:"fiyat"`
}
