package catalog

import (
	"fmt"
	"strconv"
	"time"
)

// Network identifies a telecom carrier
type Network string

const (
	NetworkTelenor Network = "telenor"
	NetworkJazz    Network = "jazz"
	NetworkZong    Network = "zong"
	NetworkUfone   Network = "ufone"
)

// Networks returns all supported carriers
func Networks() []Network {
	return []Network{NetworkTelenor, NetworkJazz, NetworkZong, NetworkUfone}
}

// Package represents a data/minute bundle. ID is a client-suppliable string
// (the seed catalog uses short ids like "u1"); a fresh UUID string is
// assigned when absent. Price is a string-encoded integer in PKR, validated
// at catalog-entry time so cost computation can never degrade to NaN.
type Package struct {
	ID           string    `db:"id" json:"id"`
	Network      Network   `db:"network" json:"network"`
	City         string    `db:"city" json:"city"`
	Type         string    `db:"type" json:"type"`
	Name         string    `db:"name" json:"name"`
	Info         string    `db:"info" json:"info"`
	Price        string    `db:"price" json:"price"`
	Code         string    `db:"code" json:"code"`
	Validity     string    `db:"validity" json:"validity"`
	Internet     string    `db:"internet" json:"internet"`
	OnNet        string    `db:"on_net" json:"onNet"`
	OffNet       string    `db:"off_net" json:"offNet"`
	SMS          string    `db:"sms" json:"sms"`
	CoinRequired bool      `db:"coin_required" json:"coinRequired"`
	IsFeatured   bool      `db:"is_featured" json:"isFeatured"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PriceValue parses the validated price string
func (p *Package) PriceValue() int64 {
	v, err := strconv.ParseInt(p.Price, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Cost returns the coin cost under the given multiplier. Packages with
// coin_required=false are free to activate.
func (p *Package) Cost(multiplier int) int64 {
	if !p.CoinRequired {
		return 0
	}
	return p.PriceValue() * int64(multiplier)
}

// DeriveInfo builds the legacy one-line description from the structured
// resource fields, e.g. "200 GB, 5000 Jazz, 1500 Other".
func (p *Package) DeriveInfo() string {
	if p.Internet == "" && p.OnNet == "" && p.OffNet == "" {
		return p.Info
	}
	return fmt.Sprintf("%s, %s %s, %s Other", p.Internet, p.OnNet, networkLabel(p.Network), p.OffNet)
}

func networkLabel(n Network) string {
	switch n {
	case NetworkTelenor:
		return "Telenor"
	case NetworkJazz:
		return "Jazz"
	case NetworkZong:
		return "Zong"
	case NetworkUfone:
		return "Ufone"
	}
	return string(n)
}
