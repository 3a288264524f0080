package model

// ConnectionState describes the signer and network the service is bound to.
// It is written only by the wallet binder; everyone else reads snapshots.
type ConnectionState struct {
	// Account is the hex address of the configured signer, or nil when no
	// signing key is present and the service is in read-only mode.
	Account *string `json:"account"`
	// ChainID is the id reported by the RPC node, or nil when it could not
	// be read.
	ChainID *uint64 `json:"chain_id"`
	// IsAdmin is true only when Account equals the contract's admin address
	// as read at bind time.
	IsAdmin bool `json:"is_admin"`
}

// CanWrite reports whether a signer is available for transactions.
func (s ConnectionState) CanWrite() bool {
	return s.Account != nil
}
