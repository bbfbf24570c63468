package catalog

// PackageRequest for admin add/update. Price must be a whole number so the
// coin cost is always defined.
type PackageRequest struct {
	ID           string `json:"id" validate:"omitempty,max=64"`
	Network      string `json:"network" validate:"required,network"`
	City         string `json:"city" validate:"omitempty,max=50"`
	Type         string `json:"type" validate:"required,max=30"`
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Info         string `json:"info" validate:"omitempty,max=200"`
	Price        string `json:"price" validate:"required,int_price"`
	Code         string `json:"code" validate:"required,max=30"`
	Validity     string `json:"validity" validate:"omitempty,max=30"`
	Internet     string `json:"internet" validate:"omitempty,max=30"`
	OnNet        string `json:"onNet" validate:"omitempty,max=30"`
	OffNet       string `json:"offNet" validate:"omitempty,max=30"`
	SMS          string `json:"sms" validate:"omitempty,max=30"`
	CoinRequired *bool  `json:"coinRequired"`
	IsFeatured   bool   `json:"isFeatured"`
}

// ListQuery captures public browsing filters
type ListQuery struct {
	Network string
	Tab     string // matches city or type ("All" disables the filter)
	Search  string
}

// PackageResponse decorates a package with its current coin cost
type PackageResponse struct {
	Package
	Cost int64 `json:"cost"`
}
