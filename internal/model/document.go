package model

// ContractDocument bundles everything the PDF renderer needs for one
// contract.
type ContractDocument struct {
	Contract  Contract
	Musicians []SideMusician
	ScaleName string
}
