package models

type Customer struct {
	CustomerID             int64  `json:"customer_id"`
	Name                   string `json:"name"`
	Surname                string `json:"surname"`
	NationalIdentityNumber string `json:"national_identity_number"`
	Address                string `json:"address"`
}
