package request

// PurchaseRequest asks to buy a bundle for a target number
type PurchaseRequest struct {
	PackageID   string `json:"package_id" validate:"required,max=64"`
	TargetPhone string `json:"target_phone" validate:"required,pk_phone"`
}

// ResolveRequest moves a pending request to its terminal status
type ResolveRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}
