package dto

import "coursechain/internal/model"

// ConnectionResponseDTO describes the signer and network binding.
type ConnectionResponseDTO struct {
	Account *string `json:"account"`
	ChainID *uint64 `json:"chain_id"`
	IsAdmin bool    `json:"is_admin"`
}

// FromConnectionState maps the binder's state onto its response shape.
func FromConnectionState(s model.ConnectionState) ConnectionResponseDTO {
	return ConnectionResponseDTO{
		Account: s.Account,
		ChainID: s.ChainID,
		IsAdmin: s.IsAdmin,
	}
}
